package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"patchforge/pkg/patchforge"
	"patchforge/pkg/patchforge/tagging"
)

var (
	autotagRulesFile string
	autotagNeighbors int
)

var autotagCmd = &cobra.Command{
	Use:   "autotag",
	Short: "Tag patches automatically",
}

var autotagNamesCmd = &cobra.Command{
	Use:   "names",
	Short: "Tag patches from name-matching rules",
	Long: `Tag every patch whose name matches a rule pattern. Without --rules the
built-in rule table is used; --rules takes a YAML file mapping tag names to
case-insensitive patterns.`,
	Args: cobra.NoArgs,
	Run:  runAutotagNames,
}

var autotagParamsCmd = &cobra.Command{
	Use:   "params",
	Short: "Tag untagged patches by parameter similarity",
	Long: `Train a nearest-neighbor classifier on the tagged patches' parameter
vectors and tag each untagged patch with the tags a majority of its k
nearest neighbors carry. The model is rebuilt on every run.`,
	Args: cobra.NoArgs,
	Run:  runAutotagParams,
}

func init() {
	autotagNamesCmd.Flags().StringVar(&autotagRulesFile, "rules", "", "YAML tag definitions file")
	autotagParamsCmd.Flags().IntVarP(&autotagNeighbors, "neighbors", "k", tagging.DefaultNeighbors, "Neighbor count")
	autotagCmd.AddCommand(autotagNamesCmd, autotagParamsCmd)
	rootCmd.AddCommand(autotagCmd)
}

func runAutotagNames(cmd *cobra.Command, args []string) {
	svc, err := newService(true)
	if err != nil {
		fail(err)
	}
	defer svc.Close()

	var defs []tagging.Definition
	if autotagRulesFile != "" {
		defs, err = tagging.LoadDefinitionsFile(autotagRulesFile)
		if err != nil {
			fail(err)
		}
	}

	added, err := svc.TagByNames(defs, nil)
	if err != nil {
		fail(err)
	}

	if err := saveService(svc); err != nil {
		fail(err)
	}
	fmt.Printf("Added %d tags\n", added)
}

func runAutotagParams(cmd *cobra.Command, args []string) {
	svc, err := newService(true, patchforge.WithNeighbors(autotagNeighbors))
	if err != nil {
		fail(err)
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	added, err := svc.TagByParams(ctx, nil)
	if err != nil && ctx.Err() == nil {
		fail(err)
	}

	if err := saveService(svc); err != nil {
		fail(err)
	}
	fmt.Printf("Added %d tags\n", added)
}
