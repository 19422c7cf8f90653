package patchforge

import (
	"context"

	"patchforge/pkg/models"
	"patchforge/pkg/patchforge/codec"
	"patchforge/pkg/patchforge/library"
	"patchforge/pkg/patchforge/tagging"
)

// Service is the high-level API a CLI or GUI drives. A service holds
// exactly one open database at a time; all operations act on it
// explicitly. It is not safe for concurrent mutation.
type Service interface {
	// ImportBank decodes the sources into the named bank with
	// partial-success semantics.
	ImportBank(ctx context.Context, bankName string, sources []library.Source) (*models.ImportReport, error)

	// SearchByName finds patches whose name contains the substring.
	SearchByName(substring string) []models.PatchInfo
	// SearchByTags finds patches matching the tag set under the mode.
	SearchByTags(tags []string, mode library.MatchMode) []models.PatchInfo
	// SearchByBank lists a bank's patches in source order.
	SearchByBank(bankName string) []models.PatchInfo

	// AddTag and RemoveTag mutate one patch's tag set; both are
	// idempotent.
	AddTag(key, tag string) error
	RemoveTag(key, tag string) error
	// TagByNames applies name-tagging rules to the given patches (all
	// patches when keys is nil). Returns the number of tags added.
	TagByNames(defs []tagging.Definition, keys []string) (int, error)
	// TagByParams trains the nearest-neighbor classifier on the tagged
	// subset and predicts tags for the given patches (the untagged subset
	// when keys is nil). Returns the number of tags added.
	TagByParams(ctx context.Context, keys []string) (int, error)

	// ExportNative encodes one patch back to its native file format.
	ExportNative(key string) ([]byte, error)
	// ExportInterchange encodes one patch into an FXP container.
	ExportInterchange(key string, mode codec.InterchangeMode) ([]byte, error)
	// ExportBatch exports many patches with per-item failure reporting.
	ExportBatch(ctx context.Context, keys []string, mode codec.InterchangeMode) (*models.ExportReport, error)

	// RemoveDuplicates sweeps the database for content duplicates.
	RemoveDuplicates(ctx context.Context) (int, error)

	// Open replaces the active database with a saved snapshot. On failure
	// the active database is untouched.
	Open(path string) error
	// Save snapshots the active database to disk.
	Save(path string) error

	// Database exposes the underlying store for direct queries.
	Database() *library.Database

	Close() error
}

// Logger is the logging surface the service needs.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
