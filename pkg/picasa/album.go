package picasa

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"k8s.io/klog/v2"
)

// DateFormat is how album dates are rendered.
var DateFormat = "2006-01-02"

// dateEpoch is day zero for date= values.
var dateEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	sectionRe   = regexp.MustCompile(`^\[(.*)\]$`)
	keyValueRe  = regexp.MustCompile(`^([^=]+)=(.*)$`)
	fileRe      = regexp.MustCompile(`^[A-Za-z][^/\\]*_\d{4}\.[a-z0-9]{3,4}$`)
	legacyRe    = regexp.MustCompile(`^[^_/\\.]+\.[A-Za-z]{3,4}$`)
	albumIDRe   = regexp.MustCompile(`^(\.album:)?[0-9a-fA-F]{16,32}$`)
	albumNameRe = regexp.MustCompile(`^\d{4}_\d{2}_\d{2} - (\S+)`)
)

var ignoredSections = map[string]bool{
	"Contacts2": true,
	"encoding":  true,
	"photoid":   true,
}

// ignoredFileKeys are per-photo keys the organizer writes that carry nothing we export.
var ignoredFileKeys = []*regexp.Regexp{
	regexp.MustCompile(`^backuphash$`),
	regexp.MustCompile(`^crop$`),
	regexp.MustCompile(`^filters$`),
	regexp.MustCompile(`^IIDLIST_\w+$`),
	regexp.MustCompile(`^moddate$`),
	regexp.MustCompile(`^(original|)(checksum|crc|md5)\w*$`),
	regexp.MustCompile(`^redo$`),
	regexp.MustCompile(`^rotate$`),
	regexp.MustCompile(`^textactive$`),
	regexp.MustCompile(`^BKTag(\s+\S+)*$`),
}

// Tags are per-photo flags.
type Tags struct {
	Hidden  bool `json:"hidden,omitempty"`
	Starred bool `json:"starred,omitempty"`
}

// FileEntry is what an album descriptor records about one photo.
type FileEntry struct {
	FaceTags FaceTags `json:"faceTags"`
	Tags     Tags     `json:"tags"`
}

// Album is a parsed album descriptor.
type Album struct {
	ID          int                   `json:"-"`
	Name        string                `json:"name"`
	Date        string                `json:"date"`
	Location    string                `json:"location"`
	Description string                `json:"description"`
	Directory   string                `json:"directory"`
	Category    string                `json:"category"`
	Contacts    *Contacts             `json:"contacts"`
	Files       map[string]*FileEntry `json:"files"`

	// Path is the descriptor the album was read from.
	Path string `json:"-"`
}

func (a *Album) file(name string) *FileEntry {
	fe := a.Files[name]
	if fe == nil {
		fe = &FileEntry{FaceTags: FaceTags{}}
		a.Files[name] = fe
	}
	return fe
}

// albumParser holds the state of a single pass over a descriptor.
type albumParser struct {
	a       *Album
	global  *Contacts
	dims    DimensionReader
	path    string
	section string
	lastKey string
}

// ParseAlbum reads an album descriptor. Face tags are resolved against global,
// which is updated in place along with the album's own contacts.
func ParseAlbum(path string, global *Contacts, dims DimensionReader) (*Album, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrIO, err)
	}
	defer f.Close()

	p := &albumParser{
		a: &Album{
			Directory: filepath.Dir(path),
			Category:  unknownCategory,
			Contacts:  NewContacts(),
			Files:     map[string]*FileEntry{},
			Path:      path,
		},
		global: global,
		dims:   dims,
		path:   path,
	}

	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 64*1024), 4*1024*1024)
	n := 0
	for s.Scan() {
		n++
		if err := p.line(strings.TrimRight(s.Text(), "\r")); err != nil {
			return nil, &ParseError{Path: path, Line: n, Err: err}
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrIO, path, err)
	}

	klog.V(1).Infof("parsed %s: %q with %d files", path, p.a.Name, len(p.a.Files))
	return p.a, nil
}

func (p *albumParser) line(l string) error {
	if m := sectionRe.FindStringSubmatch(l); m != nil {
		p.section = m[1]
		p.lastKey = ""
		p.checkSection()
		return nil
	}

	if l == "" {
		return nil
	}

	switch {
	case p.section == "Picasa":
		p.picasaLine(l)
	case fileRe.MatchString(p.section):
		return p.fileLine(l)
	}
	return nil
}

// checkSection logs sections that will be skipped.
func (p *albumParser) checkSection() {
	s := p.section
	switch {
	case s == "Picasa", fileRe.MatchString(s):
		return
	case ignoredSections[s], albumIDRe.MatchString(s):
		klog.V(2).Infof("%s: ignoring section [%s]", p.path, s)
	case legacyRe.MatchString(s):
		if _, err := os.Stat(filepath.Join(p.a.Directory, s)); err == nil {
			klog.Errorf("%s: %s exists but does not follow the file naming convention", p.path, s)
			return
		}
		klog.V(1).Infof("%s: ignoring stale reference to %s", p.path, s)
	default:
		klog.Warningf("%s: unrecognized section [%s]", p.path, s)
	}
}

func (p *albumParser) picasaLine(l string) {
	m := keyValueRe.FindStringSubmatch(l)
	if m == nil {
		if p.lastKey == "description" {
			p.a.Description += "\n" + l
			return
		}
		klog.Warningf("%s: unrecognized line in [Picasa]: %q", p.path, l)
		return
	}

	k, v := m[1], m[2]
	p.lastKey = k
	switch k {
	case "name":
		p.a.Name = v
		p.a.Category = Category(v)
	case "date":
		d, err := albumDate(v)
		if err != nil {
			klog.Warningf("%s: %v", p.path, err)
			return
		}
		p.a.Date = d
	case "location":
		p.a.Location = v
	case "description":
		p.a.Description = v
	default:
		klog.V(1).Infof("%s: ignoring [Picasa] key %q", p.path, k)
	}
}

func (p *albumParser) fileLine(l string) error {
	m := keyValueRe.FindStringSubmatch(l)
	if m == nil {
		klog.Warningf("%s: unrecognized line in [%s]: %q", p.path, p.section, l)
		return nil
	}

	k, v := m[1], m[2]
	switch k {
	case "faces":
		fts, err := ResolveFaces(v, filepath.Join(p.a.Directory, p.section), p.a.Contacts, p.global, p.dims)
		if err != nil {
			return fmt.Errorf("[%s]: %w", p.section, err)
		}
		p.a.file(p.section).FaceTags = fts
	case "hidden":
		if v == "yes" {
			p.a.file(p.section).Tags.Hidden = true
		}
	case "star":
		if v == "yes" {
			p.a.file(p.section).Tags.Starred = true
		}
	default:
		for _, re := range ignoredFileKeys {
			if re.MatchString(k) {
				return nil
			}
		}
		klog.Warningf("%s: unrecognized key %q in [%s]", p.path, k, p.section)
	}
	return nil
}

// albumDate converts a day offset (optionally with a fractional time of day) to a date.
func albumDate(v string) (string, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", v, err)
	}
	days := int(math.Floor(f))
	return dateEpoch.AddDate(0, 0, days).Format(DateFormat), nil
}
