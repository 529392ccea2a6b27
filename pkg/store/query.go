package store

import (
	"fmt"
)

// AlbumRow is a row of the albums table.
type AlbumRow struct {
	ID          int
	Name        string
	Date        string
	Location    string
	Description string
	Category    string
	Path        string
}

// ContactSummary is a row of the contact_summary view.
type ContactSummary struct {
	Name string
	IDs  int
	Refs int
}

// FaceTagRow is a row of the face_tags table.
type FaceTagRow struct {
	AlbumName string
	ImageFile string
	Person    string
	X         int
	Y         int
	Width     int
	Height    int
}

// Albums returns every stored album ordered by id.
func (s *Store) Albums() ([]AlbumRow, error) {
	rows, err := s.db.Query(`SELECT id, name, date, location, description, category, path FROM albums ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query albums: %w", err)
	}
	defer rows.Close()

	var as []AlbumRow
	for rows.Next() {
		var a AlbumRow
		if err := rows.Scan(&a.ID, &a.Name, &a.Date, &a.Location, &a.Description, &a.Category, &a.Path); err != nil {
			return nil, err
		}
		as = append(as, a)
	}
	return as, rows.Err()
}

// ContactSummaries returns per-name id and reference totals ordered by name.
func (s *Store) ContactSummaries() ([]ContactSummary, error) {
	rows, err := s.db.Query(`SELECT name, ids, refs FROM contact_summary ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query contact_summary: %w", err)
	}
	defer rows.Close()

	var cs []ContactSummary
	for rows.Next() {
		var c ContactSummary
		if err := rows.Scan(&c.Name, &c.IDs, &c.Refs); err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, rows.Err()
}

// FaceTags returns stored face tags for a person.
func (s *Store) FaceTags(person string) ([]FaceTagRow, error) {
	rows, err := s.db.Query(s.rebind(`SELECT album_name, image_file, person, x_coord, y_coord, width, height
        FROM face_tags WHERE person = ? ORDER BY album_name, image_file`), person)
	if err != nil {
		return nil, fmt.Errorf("query face_tags: %w", err)
	}
	defer rows.Close()

	var fs []FaceTagRow
	for rows.Next() {
		var f FaceTagRow
		if err := rows.Scan(&f.AlbumName, &f.ImageFile, &f.Person, &f.X, &f.Y, &f.Width, &f.Height); err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	return fs, rows.Err()
}
