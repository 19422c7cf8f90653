package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"patchforge/pkg/patchforge"
	"patchforge/pkg/patchforge/codec"
	"patchforge/pkg/utils"
)

var (
	exportFormat string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export <key>...",
	Short: "Export patches to native or FXP files",
	Long: `Export one or more patches. Formats:

  native  the synth's own patch file format
  chunk   FXP preset wrapping the native chunk verbatim (default; lossless)
  params  FXP preset with parameters normalized to 0-1 (synth-specific)

Files are written into --out, named after the patch.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "chunk", "Export format: native, chunk or params")
	exportCmd.Flags().StringVar(&exportDir, "out", ".", "Output directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	svc, err := newService(true)
	if err != nil {
		fail(err)
	}
	defer svc.Close()

	if err := utils.MakeDir(exportDir); err != nil {
		fail(err)
	}

	switch exportFormat {
	case "native":
		runExportNative(svc, args)
	case "chunk":
		runExportInterchange(svc, args, codec.OpaqueChunk)
	case "params":
		runExportInterchange(svc, args, codec.NormalizedParams)
	default:
		fail(fmt.Errorf("unknown export format %q", exportFormat))
	}
}

func runExportNative(svc patchforge.Service, keys []string) {
	ext := svc.Database().Schema().FileExt()
	written := 0
	for i, key := range keys {
		data, err := svc.ExportNative(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  failed %s: %v\n", key, err)
			continue
		}
		name := exportFileName(svc, key, i, ext)
		if err := os.WriteFile(filepath.Join(exportDir, name), data, 0644); err != nil {
			fail(err)
		}
		written++
	}
	fmt.Printf("Exported %d of %d patches to %s\n", written, len(keys), exportDir)
}

func runExportInterchange(svc patchforge.Service, keys []string, mode codec.InterchangeMode) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := svc.ExportBatch(ctx, keys, mode)
	if err != nil && !report.Cancelled {
		fail(err)
	}

	for i, p := range report.Exported {
		name := utils.SanitizeFileName(p.Name, fmt.Sprintf("patch%03d", i+1)) + ".fxp"
		if err := os.WriteFile(filepath.Join(exportDir, name), p.Data, 0644); err != nil {
			fail(err)
		}
	}
	for _, f := range report.Failures {
		fmt.Fprintf(os.Stderr, "  failed %s: %s\n", f.Key, f.Reason)
	}
	fmt.Printf("Exported %d of %d patches to %s\n", len(report.Exported), len(keys), exportDir)
}

func exportFileName(svc patchforge.Service, key string, i int, ext string) string {
	name := ""
	if p, ok := svc.Database().Patch(key); ok {
		name = p.Name
	}
	return utils.SanitizeFileName(name, fmt.Sprintf("patch%03d", i+1)) + "." + ext
}
