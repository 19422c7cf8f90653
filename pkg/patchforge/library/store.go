package library

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"patchforge/pkg/patchforge/codec"
	"patchforge/pkg/patchforge/identity"
)

// A snapshot is one SQLite file capturing the whole database: banks in
// creation order, patches with their raw canonical parameter bytes and tag
// sets. The reverse indices are rebuilt on load.

const (
	storeSchemaVersion = 1
	tagSeparator       = "|"

	metaKeyVersion = "schema_version"
	metaKeyFamily  = "family"
)

type metaRow struct {
	K string `gorm:"primaryKey;column:k"`
	V string `gorm:"column:v"`
}

func (metaRow) TableName() string { return "meta" }

type bankRow struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"uniqueIndex"`
	Position int
}

func (bankRow) TableName() string { return "banks" }

type patchRow struct {
	Key      string            `gorm:"primaryKey;type:varchar(36)"`
	Bank     string            `gorm:"index"`
	Position int               // order within the bank
	Seq      uint64            `gorm:"index"`
	Name     string            `gorm:"index"`
	Meta     map[string]string `gorm:"serializer:json"`
	Params   []byte            // canonical parameter encoding
	Identity string            `gorm:"index"`
	Tags     string            // tagSeparator-joined
}

func (patchRow) TableName() string { return "patches" }

func openStore(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
}

func closeStore(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save writes a full snapshot of the database to path, replacing any
// existing snapshot. The write goes to a temporary file first so a failed
// save never clobbers the previous snapshot.
func (db *Database) Save(path string) error {
	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("preparing snapshot file: %w", err)
	}

	if err := db.writeSnapshot(tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

func (db *Database) writeSnapshot(path string) error {
	gdb, err := openStore(path)
	if err != nil {
		return fmt.Errorf("opening snapshot db: %w", err)
	}
	defer closeStore(gdb)

	if err := gdb.AutoMigrate(&metaRow{}, &bankRow{}, &patchRow{}); err != nil {
		return fmt.Errorf("migrating snapshot schema: %w", err)
	}

	metas := []metaRow{
		{K: metaKeyVersion, V: strconv.Itoa(storeSchemaVersion)},
		{K: metaKeyFamily, V: db.schema.Family()},
	}
	if err := gdb.Create(&metas).Error; err != nil {
		return fmt.Errorf("writing snapshot meta: %w", err)
	}

	bankRows := make([]bankRow, 0, len(db.bankOrder))
	for i, name := range db.bankOrder {
		bankRows = append(bankRows, bankRow{Name: name, Position: i})
	}
	if len(bankRows) > 0 {
		if err := gdb.CreateInBatches(bankRows, 500).Error; err != nil {
			return fmt.Errorf("writing banks: %w", err)
		}
	}

	var rows []patchRow
	for _, bankName := range db.bankOrder {
		bank := db.banks[bankName]
		for pos, key := range bank.keys {
			p := db.patches[key]
			rows = append(rows, patchRow{
				Key:      p.Key,
				Bank:     p.Bank,
				Position: pos,
				Seq:      p.seq,
				Name:     p.Name,
				Meta:     p.Meta,
				Params:   identity.Canonical(p.Params),
				Identity: p.Identity.String(),
				Tags:     strings.Join(p.Tags(), tagSeparator),
			})
		}
	}
	if len(rows) > 0 {
		if err := gdb.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("writing patches: %w", err)
		}
	}
	return nil
}

// Load reads a snapshot into a fresh Database. It is all-or-nothing: any
// inconsistency fails with an error wrapping ErrCorruptStore and no partial
// database is returned, so a previously loaded instance is never disturbed.
func Load(path string, schema codec.Schema) (*Database, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}

	gdb, err := openStore(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening snapshot: %v", ErrCorruptStore, err)
	}
	defer closeStore(gdb)

	var metas []metaRow
	if err := gdb.Find(&metas).Error; err != nil {
		return nil, fmt.Errorf("%w: reading meta: %v", ErrCorruptStore, err)
	}
	kv := make(map[string]string, len(metas))
	for _, m := range metas {
		kv[m.K] = m.V
	}
	if v := kv[metaKeyVersion]; v != strconv.Itoa(storeSchemaVersion) {
		return nil, fmt.Errorf("%w: unsupported snapshot version %q", ErrCorruptStore, v)
	}
	if fam := kv[metaKeyFamily]; fam != schema.Family() {
		return nil, fmt.Errorf("%w: snapshot family %q, want %q", ErrCorruptStore, fam, schema.Family())
	}

	var bankRows []bankRow
	if err := gdb.Order("position").Find(&bankRows).Error; err != nil {
		return nil, fmt.Errorf("%w: reading banks: %v", ErrCorruptStore, err)
	}

	var rows []patchRow
	if err := gdb.Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: reading patches: %v", ErrCorruptStore, err)
	}

	db := New(schema)
	for _, b := range bankRows {
		db.banks[b.Name] = &Bank{Name: b.Name}
		db.bankOrder = append(db.bankOrder, b.Name)
	}

	// Patches are keyed into their banks by stored position, not load
	// order, so bank sequences come back exactly as saved.
	perBank := make(map[string][]patchRow)
	for _, row := range rows {
		perBank[row.Bank] = append(perBank[row.Bank], row)
	}

	for _, row := range rows {
		params, ok := identity.FromCanonical(row.Params)
		if !ok || len(params) != schema.NumParams() {
			return nil, fmt.Errorf("%w: patch %s has invalid parameter bytes", ErrCorruptStore, row.Key)
		}
		id := identity.Compute(params)
		if id.String() != row.Identity {
			return nil, fmt.Errorf("%w: patch %s identity mismatch", ErrCorruptStore, row.Key)
		}
		if _, ok := db.banks[row.Bank]; !ok {
			return nil, fmt.Errorf("%w: patch %s references unknown bank %q", ErrCorruptStore, row.Key, row.Bank)
		}
		if existing, dup := db.byIdentity[id]; dup {
			return nil, fmt.Errorf("%w: patches %s and %s share identity %s", ErrCorruptStore, existing, row.Key, row.Identity)
		}

		p := &Patch{
			Key:      row.Key,
			Name:     row.Name,
			Bank:     row.Bank,
			Meta:     row.Meta,
			Params:   params,
			Identity: id,
			seq:      row.Seq,
			tags:     make(map[string]struct{}),
		}
		for _, tag := range strings.Split(row.Tags, tagSeparator) {
			if tag == "" {
				continue
			}
			p.tags[tag] = struct{}{}
			set := db.byTag[tag]
			if set == nil {
				set = make(map[string]struct{})
				db.byTag[tag] = set
			}
			set[row.Key] = struct{}{}
		}

		db.patches[row.Key] = p
		db.byIdentity[id] = row.Key
		if row.Seq >= db.nextSeq {
			db.nextSeq = row.Seq + 1
		}
	}

	for name, bank := range db.banks {
		rows := perBank[name]
		for _, row := range rows {
			bank.keys = append(bank.keys, row.Key)
		}
		// Stored positions win over seq order within a bank.
		sortByPosition(bank.keys, rows)
	}

	return db, nil
}

// sortByPosition reorders keys to match the stored per-bank positions.
func sortByPosition(keys []string, rows []patchRow) {
	pos := make(map[string]int, len(rows))
	for _, r := range rows {
		pos[r.Key] = r.Position
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && pos[keys[j-1]] > pos[keys[j]]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}
