package models

// ImportFailure records one source file that could not be decoded.
type ImportFailure struct {
	SourceName string // name of the offending file, as given by the enumerator
	Reason     string
}

// ImportReport summarizes one bank import. Per-file decode failures and
// duplicate rejections never abort the batch; they are counted here instead.
type ImportReport struct {
	Bank       string
	Imported   int
	Duplicates int
	Failures   []ImportFailure
	Cancelled  bool // true when the import stopped early on context cancellation
}

// Failed returns the number of source files that could not be decoded.
func (r *ImportReport) Failed() int {
	return len(r.Failures)
}

// ExportFailure records one patch that could not be exported.
type ExportFailure struct {
	Key    string
	Reason string
}

// ExportedPatch is one successfully encoded patch in a batch export.
type ExportedPatch struct {
	Key  string
	Name string
	Data []byte
}

// ExportReport summarizes a batch export with the same per-item,
// non-aborting failure policy as ImportReport.
type ExportReport struct {
	Exported  []ExportedPatch
	Failures  []ExportFailure
	Cancelled bool
}
