package picasa

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2019_01_05 - Dining with Maxwell", "picasa.ini"), diningIni)
	writeFile(t, filepath.Join(root, "2018", "picasa.ini"),
		"[Picasa]\nname=2018_07_14 - Biking the coast\ndate=43295\n[IMG_0002.jpg]\nfaces=rect64(0000000080008000),0123456789ab;rect64(0000000080008000),ba9876543210\n")

	contacts := filepath.Join(t.TempDir(), "contacts.xml")
	writeFile(t, contacts, `<contacts>
<contact id="0123456789ab" name="Maxwell"/>
<contact id="ba9876543210" name="Ada"/>
</contacts>`)

	return &Config{Root: root, ContactsFile: contacts}
}

func TestExtract(t *testing.T) {
	c := testConfig(t)
	e, err := Extract(c, testDims)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if len(e.Albums) != 2 {
		t.Fatalf("got %d albums, want 2", len(e.Albums))
	}
	a, ok := e.Album(1)
	if !ok || a.Name != "2018_07_14 - Biking the coast" {
		t.Errorf("album 1 = %+v, want the 2018 album", a)
	}
	if _, ok := e.Album(3); ok {
		t.Errorf("album 3 exists")
	}

	if n, _ := e.Contacts.Count("Maxwell", "0123456789ab"); n != 2 {
		t.Errorf("Maxwell global count = %d, want 2", n)
	}
	if n, _ := e.Contacts.Count("Ada", "ba9876543210"); n != 1 {
		t.Errorf("Ada global count = %d, want 1", n)
	}

	biking, _ := e.Album(1)
	if n, _ := biking.Contacts.Count("Maxwell", "0123456789ab"); n != 1 {
		t.Errorf("Maxwell album count = %d, want 1", n)
	}
	want := FaceTags{
		"Maxwell": {X: 0, Y: 0, Width: 500, Height: 250},
		"Ada":     {X: 0, Y: 0, Width: 500, Height: 250},
	}
	if diff := cmp.Diff(want, biking.Files["IMG_0002.jpg"].FaceTags); diff != "" {
		t.Errorf("face tags mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractIsolated(t *testing.T) {
	c := testConfig(t)
	for i := 0; i < 2; i++ {
		e, err := Extract(c, testDims)
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		if n, _ := e.Contacts.Count("Maxwell", "0123456789ab"); n != 2 {
			t.Errorf("run %d: Maxwell count = %d, want 2", i, n)
		}
	}
}

func TestExtractWithoutContacts(t *testing.T) {
	c := testConfig(t)
	c.ContactsFile = ""
	e, err := Extract(c, testDims)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if e.Contacts.Len() != 0 {
		t.Errorf("contacts = %d, want 0", e.Contacts.Len())
	}
	for _, a := range e.Albums {
		for f, fe := range a.Files {
			if len(fe.FaceTags) != 0 {
				t.Errorf("%s/%s has face tags without contacts: %v", a.Name, f, fe.FaceTags)
			}
		}
	}
}

func TestWriteJSON(t *testing.T) {
	c := testConfig(t)
	e, err := Extract(c, testDims)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "picasa.json")
	for i := 0; i < 2; i++ {
		if err := WriteJSON(path, e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("backup missing: %v", err)
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got struct {
		Albums map[string]struct {
			Name     string `json:"name"`
			Date     string `json:"date"`
			Category string `json:"category"`
			Files    map[string]struct {
				FaceTags map[string]Rectangle `json:"faceTags"`
				Tags     map[string]bool      `json:"tags"`
			} `json:"files"`
		} `json:"albums"`
		Contacts map[string]map[string]int `json:"contacts"`
	}
	if err := json.Unmarshal(bs, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Albums["2"].Name != "2019_01_05 - Dining with Maxwell" || got.Albums["2"].Date != "2019-02-04" {
		t.Errorf("album 2 = %+v", got.Albums["2"])
	}
	if !got.Albums["2"].Files["IMG_0001.jpg"].Tags["starred"] {
		t.Errorf("IMG_0001.jpg is not starred: %+v", got.Albums["2"].Files["IMG_0001.jpg"])
	}
	if diff := cmp.Diff(map[string]map[string]int{"Maxwell": {"0123456789ab": 2}, "Ada": {"ba9876543210": 1}}, got.Contacts); diff != "" {
		t.Errorf("contacts mismatch (-want +got):\n%s", diff)
	}
}
