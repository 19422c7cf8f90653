package library

import (
	"fmt"
	"sort"
	"strings"
)

// AddTag tags the patch. Adding an already-present tag is a no-op; the
// return value reports whether the tag set actually changed.
func (db *Database) AddTag(key, tag string) (bool, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false, ErrEmptyTag
	}
	p, ok := db.patches[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownPatch, key)
	}
	if _, present := p.tags[tag]; present {
		return false, nil
	}

	p.tags[tag] = struct{}{}
	set := db.byTag[tag]
	if set == nil {
		set = make(map[string]struct{})
		db.byTag[tag] = set
	}
	set[key] = struct{}{}
	return true, nil
}

// RemoveTag untags the patch. Removing an absent tag is a no-op; the return
// value reports whether the tag set actually changed.
func (db *Database) RemoveTag(key, tag string) (bool, error) {
	p, ok := db.patches[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownPatch, key)
	}
	if _, present := p.tags[tag]; !present {
		return false, nil
	}

	delete(p.tags, tag)
	if set := db.byTag[tag]; set != nil {
		delete(set, key)
		if len(set) == 0 {
			delete(db.byTag, tag)
		}
	}
	return true, nil
}

// Tags returns every tag name currently carried by at least one patch,
// sorted.
func (db *Database) Tags() []string {
	out := make([]string, 0, len(db.byTag))
	for tag := range db.byTag {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
