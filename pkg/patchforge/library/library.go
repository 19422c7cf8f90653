// Package library implements the patch database: an in-memory store of
// Banks and Patches with tag and identity indices, snapshot persistence,
// import with deduplication, and pure query operations.
//
// A Database has a single logical owner; it is not safe for concurrent
// mutation. Long-running operations take a context and check it between
// patch-level units of work. A cancelled import keeps the patches inserted
// so far ("imported so far" policy); it never rolls back.
package library

import (
	"sort"

	"patchforge/pkg/patchforge/codec"
	"patchforge/pkg/patchforge/identity"
)

// Patch is one stored preset. Patches are owned exclusively by the
// Database: callers must not mutate a returned *Patch, and tag changes go
// through Database.AddTag/RemoveTag so the indices stay consistent.
type Patch struct {
	Key      string // UUID key
	Name     string
	Bank     string // name of the owning bank
	Meta     map[string]string
	Params   codec.ParameterSet
	Identity identity.ID

	seq  uint64
	tags map[string]struct{}
}

// Tags returns the patch's tag names, sorted.
func (p *Patch) Tags() []string {
	out := make([]string, 0, len(p.tags))
	for t := range p.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// HasTag reports whether the patch carries the tag.
func (p *Patch) HasTag(tag string) bool {
	_, ok := p.tags[tag]
	return ok
}

// TagCount returns the number of tags on the patch.
func (p *Patch) TagCount() int { return len(p.tags) }

// Bank is a named group of patches originating from one imported source
// directory. It holds keys in source file order; the patches themselves
// live in the Database.
type Bank struct {
	Name string
	keys []string
}

// Keys returns the bank's patch keys in source order.
func (b *Bank) Keys() []string {
	return append([]string(nil), b.keys...)
}

// Len returns the number of patches in the bank.
func (b *Bank) Len() int { return len(b.keys) }

// Database owns all Banks and Patches plus the reverse indices used for
// queries and deduplication. Construct with New, or Load a saved snapshot.
type Database struct {
	schema codec.Schema

	patches   map[string]*Patch
	banks     map[string]*Bank
	bankOrder []string

	byIdentity map[identity.ID]string
	byTag      map[string]map[string]struct{}

	nextSeq uint64
}

// New returns an empty database decoding patches with the given schema.
func New(schema codec.Schema) *Database {
	return &Database{
		schema:     schema,
		patches:    make(map[string]*Patch),
		banks:      make(map[string]*Bank),
		byIdentity: make(map[identity.ID]string),
		byTag:      make(map[string]map[string]struct{}),
		nextSeq:    1,
	}
}

// Schema returns the codec schema the database decodes with.
func (db *Database) Schema() codec.Schema { return db.schema }

// Len returns the number of stored patches.
func (db *Database) Len() int { return len(db.patches) }

// Patch looks up a patch by key.
func (db *Database) Patch(key string) (*Patch, bool) {
	p, ok := db.patches[key]
	return p, ok
}

// Bank looks up a bank by name.
func (db *Database) Bank(name string) (*Bank, bool) {
	b, ok := db.banks[name]
	return b, ok
}

// Banks returns the bank names in creation order.
func (db *Database) Banks() []string {
	return append([]string(nil), db.bankOrder...)
}

// Keys returns every patch key in insertion order.
func (db *Database) Keys() []string {
	keys := make([]string, 0, len(db.patches))
	for k := range db.patches {
		keys = append(keys, k)
	}
	db.sortBySeq(keys)
	return keys
}

// Untagged returns the keys of all patches without any tag, in insertion
// order. This is the usual candidate set for the parameter tagger.
func (db *Database) Untagged() []string {
	var keys []string
	for k, p := range db.patches {
		if len(p.tags) == 0 {
			keys = append(keys, k)
		}
	}
	db.sortBySeq(keys)
	return keys
}

// sortBySeq orders keys by patch insertion sequence so query results are
// deterministic for a fixed database state.
func (db *Database) sortBySeq(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		return db.patches[keys[i]].seq < db.patches[keys[j]].seq
	})
}

// insert adds a decoded patch under the named bank, creating the bank when
// new, and updates both reverse indices. All mutations to the patch store,
// bank sequence and indices happen here so no query can observe them out
// of step.
func (db *Database) insert(key, bankName string, decoded *codec.Patch, id identity.ID) *Patch {
	bank, ok := db.banks[bankName]
	if !ok {
		bank = &Bank{Name: bankName}
		db.banks[bankName] = bank
		db.bankOrder = append(db.bankOrder, bankName)
	}

	p := &Patch{
		Key:      key,
		Name:     decoded.Name,
		Bank:     bankName,
		Meta:     decoded.Meta,
		Params:   decoded.Params.Clone(),
		Identity: id,
		seq:      db.nextSeq,
		tags:     make(map[string]struct{}),
	}
	db.nextSeq++

	db.patches[key] = p
	bank.keys = append(bank.keys, key)
	db.byIdentity[id] = key
	return p
}

// remove deletes a patch and scrubs it from its bank and both indices.
func (db *Database) remove(p *Patch) {
	delete(db.patches, p.Key)

	if bank, ok := db.banks[p.Bank]; ok {
		for i, k := range bank.keys {
			if k == p.Key {
				bank.keys = append(bank.keys[:i], bank.keys[i+1:]...)
				break
			}
		}
	}

	for tag := range p.tags {
		if set := db.byTag[tag]; set != nil {
			delete(set, p.Key)
			if len(set) == 0 {
				delete(db.byTag, tag)
			}
		}
	}

	if db.byIdentity[p.Identity] == p.Key {
		delete(db.byIdentity, p.Identity)
	}
}
