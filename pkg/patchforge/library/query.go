package library

import "strings"

// MatchMode selects how FindByTags combines multiple tags.
type MatchMode int

const (
	// MatchAny returns patches carrying at least one of the tags.
	MatchAny MatchMode = iota
	// MatchAll returns patches carrying every tag.
	MatchAll
)

// FindByName returns the keys of patches whose name contains the substring,
// case-insensitively, in insertion order.
func (db *Database) FindByName(substring string) []string {
	needle := strings.ToLower(substring)
	var keys []string
	for k, p := range db.patches {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			keys = append(keys, k)
		}
	}
	db.sortBySeq(keys)
	return keys
}

// FindByTags returns the keys of patches matching the tag set under the
// given mode, in insertion order.
func (db *Database) FindByTags(tags []string, mode MatchMode) []string {
	if len(tags) == 0 {
		return nil
	}

	var candidate map[string]struct{}
	switch mode {
	case MatchAny:
		candidate = make(map[string]struct{})
		for _, tag := range tags {
			for k := range db.byTag[tag] {
				candidate[k] = struct{}{}
			}
		}
	default: // MatchAll
		first := db.byTag[tags[0]]
		candidate = make(map[string]struct{}, len(first))
		for k := range first {
			candidate[k] = struct{}{}
		}
		for _, tag := range tags[1:] {
			set := db.byTag[tag]
			for k := range candidate {
				if _, ok := set[k]; !ok {
					delete(candidate, k)
				}
			}
		}
	}

	keys := make([]string, 0, len(candidate))
	for k := range candidate {
		keys = append(keys, k)
	}
	db.sortBySeq(keys)
	return keys
}

// FindByBank returns the bank's keys in source file order, or nil when the
// bank does not exist.
func (db *Database) FindByBank(bankName string) []string {
	bank, ok := db.banks[bankName]
	if !ok {
		return nil
	}
	return bank.Keys()
}
