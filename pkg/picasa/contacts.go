package picasa

import (
	"encoding/json"

	"k8s.io/klog/v2"
)

// ContactEntry is a single (name, id) pair from a contacts source.
type ContactEntry struct {
	Name string
	ID   string
}

// ContactRef is one opaque contact id and how many face tags reference it.
type ContactRef struct {
	ID    string
	Count int
}

// Contact is a display name and every id that has been seen for it.
type Contact struct {
	Name string
	Refs []*ContactRef
}

// Contacts maps display names to reference-counted contact ids.
// Names and ids are kept in insertion order so lookups are deterministic.
type Contacts struct {
	names  []string
	byName map[string]*Contact
	// byID points at the first name an id was inserted under.
	byID map[string]string
}

// NewContacts returns an empty directory.
func NewContacts() *Contacts {
	return &Contacts{
		byName: map[string]*Contact{},
		byID:   map[string]string{},
	}
}

// Seed resets the directory and inserts every entry with a count of zero.
func (c *Contacts) Seed(es []ContactEntry) {
	c.names = nil
	c.byName = map[string]*Contact{}
	c.byID = map[string]string{}

	for _, e := range es {
		ct := c.byName[e.Name]
		if ct == nil {
			c.add(e.Name, e.ID, 0)
			continue
		}
		if ct.ref(e.ID) != nil {
			klog.V(1).Infof("contact %q: duplicate id %s", e.Name, e.ID)
			continue
		}
		klog.Infof("contact %q has more than one id, adding %s", e.Name, e.ID)
		c.add(e.Name, e.ID, 0)
	}
}

// NameByID returns the name that owns id, or false if no name does.
func (c *Contacts) NameByID(id string) (string, bool) {
	name, ok := c.byID[id]
	return name, ok
}

// Increment bumps the reference count for (name, id), creating either as needed.
func (c *Contacts) Increment(name, id string) {
	ct := c.byName[name]
	if ct == nil {
		klog.Infof("adding contact %q with id %s", name, id)
		c.add(name, id, 1)
		return
	}

	if r := ct.ref(id); r != nil {
		r.Count++
		return
	}

	klog.Infof("adding id %s to contact %q", id, name)
	c.add(name, id, 1)
}

// Count returns the reference count for (name, id).
func (c *Contacts) Count(name, id string) (int, bool) {
	ct := c.byName[name]
	if ct == nil {
		return 0, false
	}
	r := ct.ref(id)
	if r == nil {
		return 0, false
	}
	return r.Count, true
}

// All returns every contact in insertion order.
func (c *Contacts) All() []*Contact {
	cs := make([]*Contact, 0, len(c.names))
	for _, n := range c.names {
		cs = append(cs, c.byName[n])
	}
	return cs
}

// Len returns the number of distinct names.
func (c *Contacts) Len() int {
	return len(c.names)
}

// MarshalJSON renders the directory as {name: {id: count}}.
func (c *Contacts) MarshalJSON() ([]byte, error) {
	out := map[string]map[string]int{}
	for _, ct := range c.All() {
		ids := map[string]int{}
		for _, r := range ct.Refs {
			ids[r.ID] = r.Count
		}
		out[ct.Name] = ids
	}
	return json.Marshal(out)
}

func (c *Contacts) add(name, id string, count int) {
	ct := c.byName[name]
	if ct == nil {
		ct = &Contact{Name: name}
		c.byName[name] = ct
		c.names = append(c.names, name)
	}
	ct.Refs = append(ct.Refs, &ContactRef{ID: id, Count: count})

	if _, ok := c.byID[id]; !ok {
		c.byID[id] = name
	}
}

func (ct *Contact) ref(id string) *ContactRef {
	for _, r := range ct.Refs {
		if r.ID == id {
			return r
		}
	}
	return nil
}
