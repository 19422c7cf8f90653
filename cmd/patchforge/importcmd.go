package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
)

var importBankName string

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import a directory of patch files as a bank",
	Long: `Import every patch file in a directory into the database as one bank.
Files that fail to decode are reported and skipped; patches whose content
is already in the database are counted as duplicates and not stored twice.

The bank name defaults to the directory's base name.`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&importBankName, "bank", "", "Bank name (default: directory base name)")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) {
	dir := args[0]
	bank := importBankName
	if bank == "" {
		bank = filepath.Base(filepath.Clean(dir))
	}

	svc, err := newService(false)
	if err != nil {
		fail(err)
	}
	defer svc.Close()

	sources, err := enumerateBankDir(dir, svc.Database().Schema())
	if err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := svc.ImportBank(ctx, bank, sources)
	if err != nil && (report == nil || !report.Cancelled) {
		fail(err)
	}

	fmt.Printf("Bank %q: %d imported, %d duplicates, %d failed\n",
		report.Bank, report.Imported, report.Duplicates, report.Failed())
	for _, f := range report.Failures {
		fmt.Printf("  failed %s: %s\n", f.SourceName, f.Reason)
	}
	if report.Cancelled {
		fmt.Println("Import cancelled; patches imported so far are kept.")
	}

	if err := saveService(svc); err != nil {
		fail(err)
	}
}
