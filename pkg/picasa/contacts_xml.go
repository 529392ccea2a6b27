package picasa

import (
	"encoding/xml"
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

type xmlContacts struct {
	Contacts []xmlContact `xml:"contact"`
}

type xmlContact struct {
	ID           string `xml:"id,attr"`
	Name         string `xml:"name,attr"`
	Display      string `xml:"display,attr"`
	ModifiedTime string `xml:"modified_time,attr"`
	Local        string `xml:"local_contact,attr"`
}

// ReadContactsXML reads (name, id) pairs from a contacts.xml file, in document order.
func ReadContactsXML(path string) ([]ContactEntry, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read contacts: %v", ErrIO, err)
	}

	var x xmlContacts
	if err := xml.Unmarshal(bs, &x); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrIO, path, err)
	}

	es := []ContactEntry{}
	for _, c := range x.Contacts {
		if c.ID == "" {
			klog.Warningf("%s: contact %q has no id, skipping", path, c.Name)
			continue
		}
		name := c.Name
		if name == "" {
			name = c.Display
		}
		es = append(es, ContactEntry{Name: name, ID: c.ID})
	}

	klog.Infof("read %d contacts from %s", len(es), path)
	return es, nil
}
