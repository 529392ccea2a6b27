package picasa

import (
	"fmt"
	"regexp"
	"strings"

	"k8s.io/klog/v2"
)

// noContactID marks a face that was detected but never assigned to anyone.
const noContactID = "ffffffffffffffff"

var faceEntryRe = regexp.MustCompile(`^rect64\(([0-9a-fA-F]{1,16})\),([0-9a-fA-F]{12,16})$`)

// FaceTags maps a contact name to the region their face occupies in one photo.
type FaceTags map[string]Rectangle

type faceEntry struct {
	rect string
	id   string
}

// ResolveFaces turns a faces= value into named rectangles for the image at imagePath.
//
// Every entry is validated before any contact is touched, so a malformed value
// returns ErrMalformedFaceTag without changing either directory. Unknown ids are
// logged and dropped. Each resolved face increments (name, id) in both album and global.
func ResolveFaces(encoded string, imagePath string, album *Contacts, global *Contacts, dims DimensionReader) (FaceTags, error) {
	es := []faceEntry{}
	for _, raw := range strings.Split(encoded, ";") {
		if raw == "" {
			continue
		}
		m := faceEntryRe.FindStringSubmatch(raw)
		if m == nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedFaceTag, raw)
		}
		if strings.EqualFold(m[2], noContactID) {
			continue
		}
		es = append(es, faceEntry{rect: m[1], id: m[2]})
	}

	fts := FaceTags{}
	if len(es) == 0 {
		return fts, nil
	}

	w, h, err := dims.Dimensions(imagePath)
	if err != nil {
		klog.Errorf("unable to read dimensions of %s, face rectangles will be empty: %v", imagePath, err)
		w, h = 0, 0
	}

	rects := make([]Rectangle, len(es))
	for i, e := range es {
		r, err := DecodeRect64(e.rect, w, h)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFaceTag, err)
		}
		rects[i] = r
	}

	for i, e := range es {
		name, ok := global.NameByID(e.id)
		if !ok {
			klog.Errorf("%s: unknown contact id %s, skipping face", imagePath, e.id)
			continue
		}
		fts[name] = rects[i]
		album.Increment(name, e.id)
		global.Increment(name, e.id)
	}

	return fts, nil
}
