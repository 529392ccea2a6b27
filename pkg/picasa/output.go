package picasa

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// WriteJSON writes e as indented JSON, keeping the previous file as path.bak.
func WriteJSON(path string, e *Export) error {
	bs, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		bak := path + ".bak"
		klog.V(1).Infof("backing up %s to %s", path, bak)
		if err := copy.Copy(path, bak); err != nil {
			return fmt.Errorf("backup: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	klog.Infof("writing %d albums to %s", len(e.Albums), path)
	return os.WriteFile(path, append(bs, '\n'), 0o644)
}
