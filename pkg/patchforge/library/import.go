package library

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"patchforge/pkg/models"
	"patchforge/pkg/patchforge/identity"
)

// Source is one candidate patch file yielded by a bank-discovery
// enumerator: the file's name and its raw bytes.
type Source struct {
	Name string
	Raw  []byte
}

// ImportBank decodes each source into the named bank, creating the bank if
// it does not exist yet. One malformed file never aborts the import: decode
// failures are recorded in the report and the import continues. Sources
// whose content is already stored (anywhere in the database) are counted as
// duplicates and skipped.
//
// Cancellation is checked between sources, never mid-decode. On
// cancellation the patches imported so far are kept and the context error
// is returned alongside the partial report.
func (db *Database) ImportBank(ctx context.Context, bankName string, sources []Source) (*models.ImportReport, error) {
	bankName = strings.TrimSpace(bankName)
	if bankName == "" {
		return nil, ErrEmptyBankName
	}

	report := &models.ImportReport{Bank: bankName}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			return report, err
		}

		decoded, err := db.schema.Decode(src.Raw)
		if err != nil {
			report.Failures = append(report.Failures, models.ImportFailure{
				SourceName: src.Name,
				Reason:     err.Error(),
			})
			continue
		}

		id := identity.Compute(decoded.Params)
		if _, dup := db.byIdentity[id]; dup {
			report.Duplicates++
			continue
		}

		db.insert(uuid.NewString(), bankName, decoded, id)
		report.Imported++
	}
	return report, nil
}
