package assets

import (
	"database/sql"
	"fmt"

	"github.com/lupi-engine/assets/palette"
	"github.com/lupi-engine/assets/sprite"
	_ "github.com/mattn/go-sqlite3"
)

// AssetDB is a manifest of the last load: the outcome of every asset, the
// indexed sprite sheets and the palette they were indexed against.
type AssetDB struct {
	db *sql.DB
}

// AssetRecord is a row of the manifest.
type AssetRecord struct {
	ID     int64
	Kind   Kind
	Name   string
	Path   string
	SHA1   string
	Status Status
	Detail string
}

// NewAssetDB opens or creates the manifest database in file.
func NewAssetDB(file string) (*AssetDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS asset (id INTEGER PRIMARY KEY NOT NULL, kind INTEGER NOT NULL, name TEXT NOT NULL, path TEXT NOT NULL, sha1 TEXT NOT NULL, status INTEGER NOT NULL, detail TEXT NOT NULL, UNIQUE(kind, name))"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sheet (asset_id INTEGER NOT NULL UNIQUE, slot INTEGER NOT NULL, data BLOB NOT NULL, FOREIGN KEY(asset_id) REFERENCES asset(id))"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS palette (slot INTEGER PRIMARY KEY NOT NULL, color INTEGER NOT NULL)"); err != nil {
		return nil, err
	}

	return &AssetDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *AssetDB) Close() error {
	return db.db.Close()
}

// Reset empties the manifest ahead of a new load.
func (db *AssetDB) Reset() error {
	for _, table := range []string{"sheet", "asset", "palette"} {
		if _, err := db.db.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return nil
}

// RecordAsset stores the outcome for an asset and returns its id. Recording
// the same kind and name again replaces the earlier outcome.
func (db *AssetDB) RecordAsset(kind Kind, name, path, sha1 string, status Status, detail string) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM asset WHERE kind = ? AND name = ?", kind, name).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO asset (kind, name, path, sha1, status, detail) VALUES (?, ?, ?, ?, ?, ?)", kind, name, path, sha1, status, detail)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		if _, err := db.db.Exec("DELETE FROM sheet WHERE asset_id = ?", id); err != nil {
			return 0, err
		}
		if _, err := db.db.Exec("UPDATE asset SET path = ?, sha1 = ?, status = ?, detail = ? WHERE id = ?", path, sha1, status, detail, id); err != nil {
			return 0, err
		}
		return id, nil
	default:
		return 0, err
	}
}

// StoreSheet stores the indexed sheet for the asset with the given id.
func (db *AssetDB) StoreSheet(asset int64, slot int, s *sprite.Sheet) error {
	b, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := db.db.Exec("INSERT OR REPLACE INTO sheet (asset_id, slot, data) VALUES (?, ?, ?)", asset, slot, b); err != nil {
		return err
	}
	return nil
}

// StorePalette replaces the stored palette with p.
func (db *AssetDB) StorePalette(p *palette.Palette) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM palette"); err != nil {
		tx.Rollback()
		return err
	}

	for i, c := range p.Colors() {
		if _, err := tx.Exec("INSERT INTO palette (slot, color) VALUES (?, ?)", i, int(c)); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// FindSheet returns the sheet stored for the sprite called name and its
// slot. A sprite that isn't stored returns a nil sheet and no error.
func (db *AssetDB) FindSheet(name string) (*sprite.Sheet, int, error) {
	var slot int
	var data []byte
	switch err := db.db.QueryRow("SELECT s.slot, s.data FROM asset AS a JOIN sheet AS s ON s.asset_id = a.id WHERE a.kind = ? AND a.name = ?", KindSprite, name).Scan(&slot, &data); err {
	case sql.ErrNoRows:
		return nil, -1, nil
	case nil:
		s := new(sprite.Sheet)
		if err := s.UnmarshalBinary(data); err != nil {
			return nil, -1, err
		}
		return s, slot, nil
	default:
		return nil, -1, err
	}
}

// Palette returns the stored palette.
func (db *AssetDB) Palette() (*palette.Palette, error) {
	rows, err := db.db.Query("SELECT color FROM palette ORDER BY slot")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Slot 0 is always transparent, which New already holds
	p := palette.New()
	for rows.Next() {
		var c int
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		p.Insert(palette.Color(c))
	}

	return p, rows.Err()
}

// Assets returns every recorded asset ordered by kind and name.
func (db *AssetDB) Assets() ([]AssetRecord, error) {
	rows, err := db.db.Query("SELECT id, kind, name, path, sha1, status, detail FROM asset ORDER BY kind, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AssetRecord
	for rows.Next() {
		var r AssetRecord
		if err := rows.Scan(&r.ID, &r.Kind, &r.Name, &r.Path, &r.SHA1, &r.Status, &r.Detail); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
