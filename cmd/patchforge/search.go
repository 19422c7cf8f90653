package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"patchforge/pkg/models"
	"patchforge/pkg/patchforge/library"
)

var (
	searchTags    []string
	searchBank    string
	searchAllTags bool
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search patches by name, tags or bank",
	Long: `Search the database. A bare term matches patch names as a
case-insensitive substring. --tags matches any of the given tags unless
--all-tags is set; --bank lists one bank in source order.

Examples:
  patchforge search bass
  patchforge search --tags Lead,Pad
  patchforge search --tags Lead,Mono --all-tags
  patchforge search --bank "Factory Presets"`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchTags, "tags", nil, "Filter by tags (comma-separated)")
	searchCmd.Flags().StringVar(&searchBank, "bank", "", "List one bank")
	searchCmd.Flags().BoolVar(&searchAllTags, "all-tags", false, "Require every tag instead of any")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	svc, err := newService(true)
	if err != nil {
		fail(err)
	}
	defer svc.Close()

	var results []models.PatchInfo
	switch {
	case len(searchTags) > 0:
		mode := library.MatchAny
		if searchAllTags {
			mode = library.MatchAll
		}
		results = svc.SearchByTags(searchTags, mode)
	case searchBank != "":
		results = svc.SearchByBank(searchBank)
	case len(args) == 1:
		results = svc.SearchByName(args[0])
	default:
		fail(fmt.Errorf("give a search term, --tags or --bank"))
	}

	printPatches(results)
}

func printPatches(results []models.PatchInfo) {
	if len(results) == 0 {
		fmt.Println("No patches found.")
		return
	}
	for _, p := range results {
		tags := ""
		if len(p.Tags) > 0 {
			tags = "  [" + strings.Join(p.Tags, ", ") + "]"
		}
		fmt.Printf("%s  %-28s %s%s\n", p.Key, p.Name, p.Bank, tags)
	}
	fmt.Printf("%d patches\n", len(results))
}
