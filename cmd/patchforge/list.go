package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"patchforge/pkg/models"
	"patchforge/pkg/patchforge/library"
)

var listUntagged bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every patch",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := newService(true)
		if err != nil {
			fail(err)
		}
		defer svc.Close()

		db := svc.Database()
		keys := db.Keys()
		if listUntagged {
			keys = db.Untagged()
		}

		results := make([]models.PatchInfo, 0, len(keys))
		for _, key := range keys {
			p, ok := db.Patch(key)
			if !ok {
				continue
			}
			results = append(results, models.PatchInfo{Key: p.Key, Name: p.Name, Bank: p.Bank, Tags: p.Tags()})
		}
		printPatches(results)
	},
}

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "List banks",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := newService(true)
		if err != nil {
			fail(err)
		}
		defer svc.Close()

		db := svc.Database()
		for _, name := range db.Banks() {
			bank, _ := db.Bank(name)
			fmt.Printf("%-32s %d patches\n", name, bank.Len())
		}
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags in use",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := newService(true)
		if err != nil {
			fail(err)
		}
		defer svc.Close()

		db := svc.Database()
		for _, tag := range db.Tags() {
			fmt.Printf("%-24s %d patches\n", tag, len(db.FindByTags([]string{tag}, library.MatchAny)))
		}
	},
}

func init() {
	listCmd.Flags().BoolVar(&listUntagged, "untagged", false, "Only patches with no tags")
	rootCmd.AddCommand(listCmd, banksCmd, tagsCmd)
}
