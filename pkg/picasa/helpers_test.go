package picasa

import (
	"os"
	"path/filepath"
	"testing"
)

// fakeDims serves image sizes keyed by file base name.
type fakeDims map[string][2]int

func (f fakeDims) Dimensions(path string) (int, int, error) {
	d, ok := f[filepath.Base(path)]
	if !ok {
		return 0, 0, ErrNoDimensions
	}
	return d[0], d[1], nil
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func seeded(es ...ContactEntry) *Contacts {
	c := NewContacts()
	c.Seed(es)
	return c
}
