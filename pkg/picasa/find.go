package picasa

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// originalsDir holds the untouched copies of edited photos; it never contains albums.
var originalsDir = ".picasaoriginals"

var descriptorNames = []string{"picasa.ini", ".picasa.ini"}

// IsDescriptor reports whether a file name is an album descriptor.
func IsDescriptor(name string) bool {
	for _, d := range descriptorNames {
		if strings.EqualFold(name, d) {
			return true
		}
	}
	return false
}

// Walk finds and parses every album descriptor under root in sorted, depth-first order.
// Albums are numbered from 1 in the order they are found.
func Walk(root string, global *Contacts, dims DimensionReader) ([]*Album, error) {
	found := []*Album{}

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				if de.Name() == originalsDir {
					klog.V(1).Infof("skipping %s", path)
					return godirwalk.SkipThis
				}
				return nil
			}

			if !de.IsRegular() {
				return fmt.Errorf("%w: %s is neither a regular file nor a directory", ErrIO, path)
			}

			if !IsDescriptor(de.Name()) {
				return nil
			}

			klog.Infof("found %s", path)
			a, err := ParseAlbum(path, global, dims)
			if err != nil {
				return fmt.Errorf("parse album: %w", err)
			}
			a.ID = len(found) + 1
			found = append(found, a)
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			klog.Errorf("walk failure at %s: %v", path, err)
			return godirwalk.Halt
		},
	})
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) && !errors.Is(err, ErrIO) {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		return nil, err
	}

	return found, nil
}
