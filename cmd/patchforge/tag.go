package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Add or remove tags on a patch",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <key> <tag>...",
	Short: "Add tags to a patch",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runTagMutation(args[0], args[1:], true)
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <key> <tag>...",
	Short: "Remove tags from a patch",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runTagMutation(args[0], args[1:], false)
	},
}

func init() {
	tagCmd.AddCommand(tagAddCmd, tagRmCmd)
	rootCmd.AddCommand(tagCmd)
}

func runTagMutation(key string, tags []string, add bool) {
	svc, err := newService(true)
	if err != nil {
		fail(err)
	}
	defer svc.Close()

	for _, tag := range tags {
		if add {
			err = svc.AddTag(key, tag)
		} else {
			err = svc.RemoveTag(key, tag)
		}
		if err != nil {
			fail(err)
		}
	}

	if err := saveService(svc); err != nil {
		fail(err)
	}
	fmt.Printf("Updated tags on %s\n", key)
}
