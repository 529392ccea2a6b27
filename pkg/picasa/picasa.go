// Package picasa extracts albums, face tags, and contacts from a photo organizer's descriptor files.
package picasa

import (
	"encoding/json"
	"fmt"
	"strconv"

	"k8s.io/klog/v2"
)

// Config holds configuration for an extraction run.
type Config struct {
	Root         string
	ContactsFile string
	JSONOut      string
	DBDriver     string
	DBSource     string
	CropDir      string
}

// Export is the result of an extraction run.
type Export struct {
	Albums   []*Album
	Contacts *Contacts
}

// Album returns the album with the given sequence number.
func (e *Export) Album(id int) (*Album, bool) {
	if id < 1 || id > len(e.Albums) {
		return nil, false
	}
	return e.Albums[id-1], true
}

// MarshalJSON renders albums keyed by their sequence number.
func (e *Export) MarshalJSON() ([]byte, error) {
	as := map[string]*Album{}
	for _, a := range e.Albums {
		as[strconv.Itoa(a.ID)] = a
	}
	return json.Marshal(struct {
		Albums   map[string]*Album `json:"albums"`
		Contacts *Contacts         `json:"contacts"`
	}{
		Albums:   as,
		Contacts: e.Contacts,
	})
}

// Extract reads the contacts source and walks the album tree.
func Extract(c *Config, dims DimensionReader) (*Export, error) {
	klog.Infof("extract: %s", c.Root)

	es := []ContactEntry{}
	if c.ContactsFile == "" {
		klog.Warningf("no contacts file given, face tags will not resolve")
	} else {
		var err error
		es, err = ReadContactsXML(c.ContactsFile)
		if err != nil {
			return nil, fmt.Errorf("contacts: %w", err)
		}
	}

	global := NewContacts()
	global.Seed(es)

	as, err := Walk(c.Root, global, dims)
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}

	klog.Infof("extracted %d albums and %d contacts", len(as), global.Len())
	return &Export{Albums: as, Contacts: global}, nil
}
