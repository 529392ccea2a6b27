package picasa

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContactsLookup(t *testing.T) {
	c := seeded(ContactEntry{"A", "1"}, ContactEntry{"A", "2"}, ContactEntry{"B", "3"})

	if got, ok := c.NameByID("2"); !ok || got != "A" {
		t.Errorf("NameByID(2) = %q, %v, want A, true", got, ok)
	}
	if got, ok := c.NameByID("3"); !ok || got != "B" {
		t.Errorf("NameByID(3) = %q, %v, want B, true", got, ok)
	}
	if got, ok := c.NameByID("9"); ok {
		t.Errorf("NameByID(9) = %q, want not found", got)
	}

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	for _, id := range []string{"1", "2"} {
		if n, ok := c.Count("A", id); !ok || n != 0 {
			t.Errorf("Count(A, %s) = %d, %v, want 0, true", id, n, ok)
		}
	}
}

func TestContactsFirstMatchWins(t *testing.T) {
	c := seeded(ContactEntry{"A", "1"}, ContactEntry{"B", "1"})
	if got, _ := c.NameByID("1"); got != "A" {
		t.Errorf("NameByID(1) = %q, want A", got)
	}
}

func TestContactsSeedResets(t *testing.T) {
	c := seeded(ContactEntry{"A", "1"})
	c.Increment("A", "1")
	c.Seed([]ContactEntry{{"B", "2"}})

	if _, ok := c.NameByID("1"); ok {
		t.Errorf("id 1 survived a reseed")
	}
	if n, ok := c.Count("B", "2"); !ok || n != 0 {
		t.Errorf("Count(B, 2) = %d, %v, want 0, true", n, ok)
	}
}

func TestContactsIncrement(t *testing.T) {
	c := seeded(ContactEntry{"A", "1"}, ContactEntry{"A", "2"})

	c.Increment("A", "1")
	c.Increment("A", "1")
	c.Increment("A", "9")
	c.Increment("C", "5")

	want := map[string]map[string]int{
		"A": {"1": 2, "2": 0, "9": 1},
		"C": {"5": 1},
	}
	got := map[string]map[string]int{}
	for _, ct := range c.All() {
		got[ct.Name] = map[string]int{}
		for _, r := range ct.Refs {
			got[ct.Name][r.ID] = r.Count
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("contacts mismatch (-want +got):\n%s", diff)
	}

	if name, ok := c.NameByID("9"); !ok || name != "A" {
		t.Errorf("NameByID(9) = %q, %v, want A, true", name, ok)
	}

	names := []string{}
	for _, ct := range c.All() {
		names = append(names, ct.Name)
	}
	if diff := cmp.Diff([]string{"A", "C"}, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestContactsJSON(t *testing.T) {
	c := seeded(ContactEntry{"A", "1"}, ContactEntry{"B", "3"})
	c.Increment("B", "3")

	bs, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := map[string]map[string]int{}
	if err := json.Unmarshal(bs, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]map[string]int{"A": {"1": 0}, "B": {"3": 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestReadContactsXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.xml")
	writeFile(t, path, `<?xml version="1.0" encoding="utf-8" ?>
<contacts>
 <contact id="0123456789ab" name="Maxwell" modified_time="2019-01-05T10:00:00+00:00" local_contact="1"/>
 <contact id="ba9876543210" name="Ada" display="Ada L." local_contact="1"/>
 <contact id="" name="Nobody"/>
 <contact id="fedcba987654" name="Maxwell"/>
</contacts>
`)

	got, err := ReadContactsXML(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []ContactEntry{
		{Name: "Maxwell", ID: "0123456789ab"},
		{Name: "Ada", ID: "ba9876543210"},
		{Name: "Maxwell", ID: "fedcba987654"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("contacts mismatch (-want +got):\n%s", diff)
	}
}

func TestReadContactsXMLMissing(t *testing.T) {
	if _, err := ReadContactsXML(filepath.Join(t.TempDir(), "nope.xml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
