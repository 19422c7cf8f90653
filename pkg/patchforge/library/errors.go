package library

import "errors"

var (
	// ErrCorruptStore reports a persisted snapshot that cannot be loaded.
	// A failed Load never touches a previously loaded database.
	ErrCorruptStore = errors.New("corrupt patch store")
	// ErrUnknownPatch reports an operation against a key that is not in
	// the database.
	ErrUnknownPatch = errors.New("unknown patch key")
	// ErrEmptyBankName reports an import into an unnamed bank.
	ErrEmptyBankName = errors.New("bank name must not be empty")
	// ErrEmptyTag reports a tag mutation with a blank tag name.
	ErrEmptyTag = errors.New("tag name must not be empty")
)
