// Package store persists an extraction into a relational database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"k8s.io/klog/v2"

	"github.com/tstromberg/picasa-extract/pkg/picasa"
)

// Store wraps a SQLite or PostgreSQL connection.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and applies the schema.
// For sqlite3 the source is a file path; for postgres it is a connection string.
func Open(driver string, source string) (*Store, error) {
	var dsn string
	switch driver {
	case "sqlite3":
		if dir := filepath.Dir(source); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_busy_timeout=5000", source)
	case "postgres":
		dsn = source
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const schemaVersion = 1

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return fmt.Errorf("create meta: %w", err)
	}

	var current string
	_ = s.db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if v, err := strconv.Atoi(current); err == nil && v >= schemaVersion {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS contacts (
            name TEXT NOT NULL,
            picasa_id TEXT NOT NULL,
            reference_count INTEGER NOT NULL DEFAULT 0,
            PRIMARY KEY (name, picasa_id)
        );`,
		`CREATE TABLE IF NOT EXISTS albums (
            id INTEGER PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            date TEXT,
            location TEXT,
            description TEXT,
            category TEXT,
            path TEXT NOT NULL UNIQUE
        );`,
		`CREATE TABLE IF NOT EXISTS face_tags (
            album_name TEXT NOT NULL,
            image_file TEXT NOT NULL,
            person TEXT NOT NULL,
            x_coord INTEGER NOT NULL,
            y_coord INTEGER NOT NULL,
            width INTEGER NOT NULL,
            height INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS tags (
            album_name TEXT NOT NULL,
            image_file TEXT NOT NULL,
            starred BOOLEAN NOT NULL DEFAULT FALSE,
            hidden BOOLEAN NOT NULL DEFAULT FALSE
        );`,
		`DROP VIEW IF EXISTS contact_summary;`,
		`CREATE VIEW contact_summary AS
            SELECT name, COUNT(picasa_id) AS ids, SUM(reference_count) AS refs
            FROM contacts GROUP BY name;`,
		s.rebind(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`),
	}

	for i, stmt := range stmts {
		var err error
		if strings.Contains(stmt, "schema_version") {
			_, err = tx.Exec(stmt, strconv.Itoa(schemaVersion))
		} else {
			_, err = tx.Exec(stmt)
		}
		if err != nil {
			return fmt.Errorf("migration step %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// rebind converts ? placeholders to $n for postgres.
func (s *Store) rebind(q string) string {
	if s.driver != "postgres" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Persist replaces the database contents with e in a single transaction.
func (s *Store) Persist(e *picasa.Export) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, t := range []string{"face_tags", "tags", "albums", "contacts"} {
		if _, err := tx.Exec("DELETE FROM " + s.quote(t)); err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}

	for _, c := range e.Contacts.All() {
		for _, r := range c.Refs {
			if _, err := tx.Exec(s.rebind(`INSERT INTO contacts(name, picasa_id, reference_count) VALUES(?,?,?)`),
				c.Name, r.ID, r.Count); err != nil {
				return fmt.Errorf("insert contact %q: %w", c.Name, err)
			}
		}
	}

	for _, a := range e.Albums {
		if _, err := tx.Exec(s.rebind(`INSERT INTO albums(id, name, date, location, description, category, path) VALUES(?,?,?,?,?,?,?)`),
			a.ID, a.Name, a.Date, a.Location, a.Description, a.Category, a.Directory); err != nil {
			return fmt.Errorf("insert album %q: %w", a.Name, err)
		}

		files := make([]string, 0, len(a.Files))
		for f := range a.Files {
			files = append(files, f)
		}
		sort.Strings(files)

		for _, f := range files {
			fe := a.Files[f]
			if _, err := tx.Exec(s.rebind(`INSERT INTO tags(album_name, image_file, starred, hidden) VALUES(?,?,?,?)`),
				a.Name, f, fe.Tags.Starred, fe.Tags.Hidden); err != nil {
				return fmt.Errorf("insert tags for %s: %w", f, err)
			}
			for person, r := range fe.FaceTags {
				if _, err := tx.Exec(s.rebind(`INSERT INTO face_tags(album_name, image_file, person, x_coord, y_coord, width, height) VALUES(?,?,?,?,?,?,?)`),
					a.Name, f, person, r.X, r.Y, r.Width, r.Height); err != nil {
					return fmt.Errorf("insert face tag for %s: %w", f, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	klog.Infof("persisted %d albums and %d contacts via %s", len(e.Albums), e.Contacts.Len(), s.driver)
	return nil
}

func (s *Store) quote(ident string) string {
	if s.driver == "postgres" {
		return pq.QuoteIdentifier(ident)
	}
	return ident
}
