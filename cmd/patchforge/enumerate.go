package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"patchforge/pkg/patchforge/codec"
	"patchforge/pkg/patchforge/library"
)

// enumerateBankDir is the bank-discovery collaborator: it walks one
// directory and yields (sourceName, rawBytes) pairs for every file whose
// name matches the family's patch file pattern, in sorted name order so
// imports reflect source file order.
func enumerateBankDir(dir string, schema codec.Schema) ([]library.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading bank directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !schema.FilePattern().MatchString(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	sources := make([]library.Source, 0, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		sources = append(sources, library.Source{Name: name, Raw: raw})
	}
	return sources, nil
}
