package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Remove duplicate patches",
	Long: `Sweep the database for patches with identical parameter content and
remove the extras, keeping the earliest-imported copy of each.`,
	Args: cobra.NoArgs,
	Run:  runDedup,
}

func init() {
	rootCmd.AddCommand(dedupCmd)
}

func runDedup(cmd *cobra.Command, args []string) {
	svc, err := newService(true)
	if err != nil {
		fail(err)
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	removed, err := svc.RemoveDuplicates(ctx)
	if err != nil && ctx.Err() == nil {
		fail(err)
	}

	if err := saveService(svc); err != nil {
		fail(err)
	}
	fmt.Printf("Removed %d duplicates\n", removed)
}
