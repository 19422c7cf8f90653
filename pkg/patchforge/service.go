// Package patchforge manages large libraries of synthesizer patches:
// import with deduplication, tag-indexed search, rule-based and
// nearest-neighbor tagging, and export to native or FXP interchange
// formats.
package patchforge

import (
	"context"
	"fmt"

	"patchforge/pkg/logger"
	"patchforge/pkg/models"
	"patchforge/pkg/patchforge/codec"
	"patchforge/pkg/patchforge/codec/synth1"
	"patchforge/pkg/patchforge/library"
	"patchforge/pkg/patchforge/tagging"
)

// patchService is the default implementation of the Service interface.
type patchService struct {
	db     *library.Database
	schema codec.Schema
	log    Logger
	config *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	if cfg.Schema == nil {
		cfg.Schema = synth1.New()
	}
	if cfg.Neighbors < 1 {
		return nil, fmt.Errorf("neighbor count %d must be at least 1", cfg.Neighbors)
	}

	return &patchService{
		db:     library.New(cfg.Schema),
		schema: cfg.Schema,
		log:    cfg.Logger,
		config: cfg,
	}, nil
}

func (s *patchService) ImportBank(ctx context.Context, bankName string, sources []library.Source) (*models.ImportReport, error) {
	s.log.Infof("Importing %d files into bank %q", len(sources), bankName)

	report, err := s.db.ImportBank(ctx, bankName, sources)
	if report != nil {
		s.log.Infof("Bank %q: %d imported, %d duplicates, %d failed",
			bankName, report.Imported, report.Duplicates, report.Failed())
		for _, f := range report.Failures {
			s.log.Warnf("Skipped %s: %s", f.SourceName, f.Reason)
		}
	}
	return report, err
}

func (s *patchService) info(keys []string) []models.PatchInfo {
	out := make([]models.PatchInfo, 0, len(keys))
	for _, key := range keys {
		p, ok := s.db.Patch(key)
		if !ok {
			continue
		}
		out = append(out, models.PatchInfo{
			Key:  p.Key,
			Name: p.Name,
			Bank: p.Bank,
			Tags: p.Tags(),
		})
	}
	return out
}

func (s *patchService) SearchByName(substring string) []models.PatchInfo {
	return s.info(s.db.FindByName(substring))
}

func (s *patchService) SearchByTags(tags []string, mode library.MatchMode) []models.PatchInfo {
	return s.info(s.db.FindByTags(tags, mode))
}

func (s *patchService) SearchByBank(bankName string) []models.PatchInfo {
	return s.info(s.db.FindByBank(bankName))
}

func (s *patchService) AddTag(key, tag string) error {
	_, err := s.db.AddTag(key, tag)
	return err
}

func (s *patchService) RemoveTag(key, tag string) error {
	_, err := s.db.RemoveTag(key, tag)
	return err
}

func (s *patchService) TagByNames(defs []tagging.Definition, keys []string) (int, error) {
	if defs == nil {
		defs = tagging.DefaultDefinitions()
	}
	if keys == nil {
		keys = s.db.Keys()
	}

	added, err := tagging.ApplyNames(s.db, defs, keys)
	if err != nil {
		return added, err
	}
	s.log.Infof("Name tagging added %d tags across %d patches", added, len(keys))
	return added, nil
}

func (s *patchService) TagByParams(ctx context.Context, keys []string) (int, error) {
	if keys == nil {
		keys = s.db.Untagged()
	}
	s.log.Infof("Parameter tagging %d candidates with k=%d", len(keys), s.config.Neighbors)

	added, err := tagging.TrainAndPredict(ctx, s.db, keys, s.config.Neighbors)
	if err != nil {
		return added, err
	}
	s.log.Infof("Parameter tagging added %d tags", added)
	return added, nil
}

func (s *patchService) patchFor(key string) (*library.Patch, error) {
	p, ok := s.db.Patch(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", library.ErrUnknownPatch, key)
	}
	return p, nil
}

func (s *patchService) ExportNative(key string) ([]byte, error) {
	p, err := s.patchFor(key)
	if err != nil {
		return nil, err
	}
	return s.schema.EncodeNative(&codec.Patch{Name: p.Name, Meta: p.Meta, Params: p.Params})
}

func (s *patchService) ExportInterchange(key string, mode codec.InterchangeMode) ([]byte, error) {
	p, err := s.patchFor(key)
	if err != nil {
		return nil, err
	}
	return codec.EncodeInterchange(s.schema, &codec.Patch{Name: p.Name, Meta: p.Meta, Params: p.Params}, mode)
}

// ExportBatch encodes many patches with the same per-item, non-aborting
// failure policy as ImportBank. Cancellation between items keeps the
// patches exported so far.
func (s *patchService) ExportBatch(ctx context.Context, keys []string, mode codec.InterchangeMode) (*models.ExportReport, error) {
	report := &models.ExportReport{}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			return report, err
		}

		data, err := s.ExportInterchange(key, mode)
		if err != nil {
			report.Failures = append(report.Failures, models.ExportFailure{Key: key, Reason: err.Error()})
			continue
		}
		name := ""
		if p, ok := s.db.Patch(key); ok {
			name = p.Name
		}
		report.Exported = append(report.Exported, models.ExportedPatch{Key: key, Name: name, Data: data})
	}
	return report, nil
}

func (s *patchService) RemoveDuplicates(ctx context.Context) (int, error) {
	removed, err := s.db.RemoveDuplicates(ctx)
	if removed > 0 {
		s.log.Infof("Removed %d duplicate patches", removed)
	}
	return removed, err
}

// Open loads a snapshot and only then swaps it in, so a corrupt store
// leaves the active database untouched.
func (s *patchService) Open(path string) error {
	db, err := library.Load(path, s.schema)
	if err != nil {
		return err
	}
	s.db = db
	s.log.Infof("Opened database %s: %d patches in %d banks", path, db.Len(), len(db.Banks()))
	return nil
}

func (s *patchService) Save(path string) error {
	if err := s.db.Save(path); err != nil {
		return err
	}
	s.log.Infof("Saved database to %s (%d patches)", path, s.db.Len())
	return nil
}

func (s *patchService) Database() *library.Database { return s.db }

func (s *patchService) Close() error { return nil }
