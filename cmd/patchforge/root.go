package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"patchforge/pkg/patchforge"
	"patchforge/pkg/patchforge/codec"
	"patchforge/pkg/patchforge/codec/synth1"
)

var (
	dbPath string
	family string
)

var rootCmd = &cobra.Command{
	Use:   "patchforge",
	Short: "PatchForge - synthesizer patch librarian",
	Long: `PatchForge manages large libraries of synthesizer patches: it imports
and de-duplicates native patch banks, tags them by name rules or by
parameter similarity, searches by name, tag or bank, and exports patches
as native files or FXP presets for DAWs and plugin hosts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db",
		getEnvOrDefault("PATCHFORGE_DB", "patchforge.db"),
		"Path to the patch database snapshot")
	rootCmd.PersistentFlags().StringVar(&family, "family",
		getEnvOrDefault("PATCHFORGE_FAMILY", synth1.FamilyTag),
		"Patch format family")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// newService builds a service and loads the snapshot at --db when one
// exists. Commands that only make sense against an existing database pass
// require=true.
func newService(require bool, opts ...patchforge.Option) (patchforge.Service, error) {
	schema, err := codec.Lookup(family)
	if err != nil {
		return nil, err
	}

	svc, err := patchforge.NewService(append([]patchforge.Option{patchforge.WithSchema(schema)}, opts...)...)
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(dbPath); statErr == nil {
		if err := svc.Open(dbPath); err != nil {
			return nil, fmt.Errorf("loading %s: %w", dbPath, err)
		}
	} else if require {
		return nil, fmt.Errorf("no database at %s; run an import first", dbPath)
	}
	return svc, nil
}

func saveService(svc patchforge.Service) error {
	if err := svc.Save(dbPath); err != nil {
		return fmt.Errorf("saving %s: %w", dbPath, err)
	}
	return nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
