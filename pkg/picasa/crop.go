package picasa

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

// CropQuality is the JPEG quality of saved face crops.
var CropQuality = 85

// WriteCrops saves each tagged face as <outDir>/<person>/<album>__<file>.jpg.
// It returns the number of crops written. Unreadable images and empty regions are skipped.
func WriteCrops(e *Export, outDir string) (int, error) {
	n := 0
	for _, a := range e.Albums {
		files := make([]string, 0, len(a.Files))
		for f := range a.Files {
			files = append(files, f)
		}
		sort.Strings(files)

		for _, f := range files {
			fe := a.Files[f]
			if len(fe.FaceTags) == 0 {
				continue
			}

			in := filepath.Join(a.Directory, f)
			img, err := imgio.Open(in)
			if err != nil {
				klog.Warningf("unable to open %s for cropping: %v", in, err)
				continue
			}

			for person, r := range fe.FaceTags {
				if r.Width <= 0 || r.Height <= 0 {
					klog.V(1).Infof("%s: empty region for %s: %+v", in, person, r)
					continue
				}

				p := cropPath(outDir, person, a, f)
				if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
					return n, fmt.Errorf("mkdir: %w", err)
				}

				c := transform.Crop(img, image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height))
				if err := imgio.Save(p, c, imgio.JPEGEncoder(CropQuality)); err != nil {
					return n, fmt.Errorf("save %s: %w", p, err)
				}
				klog.V(1).Infof("wrote %s", p)
				n++
			}
		}
	}

	klog.Infof("wrote %d face crops to %s", n, outDir)
	return n, nil
}

func cropPath(outDir string, person string, a *Album, file string) string {
	album := a.Name
	if album == "" {
		album = filepath.Base(a.Directory)
	}
	base := strings.TrimSuffix(file, filepath.Ext(file))
	return filepath.Join(outDir, safeName(person), fmt.Sprintf("%s__%s.jpg", safeName(album), safeName(base)))
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '?', '*', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}
