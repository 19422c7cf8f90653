package models

// PatchInfo is the read-only view of a stored patch returned by search and
// listing operations.
type PatchInfo struct {
	Key  string   // Database key (UUID)
	Name string   // Patch name as found in the source file
	Bank string   // Owning bank
	Tags []string // Sorted tag names
}
