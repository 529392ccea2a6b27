package picasa

import (
	"fmt"
	"os"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// DimensionReader returns the pixel size of an image.
type DimensionReader interface {
	Dimensions(path string) (width int, height int, err error)
}

// ExifDimensions reads image sizes through a long-running exiftool process.
type ExifDimensions struct {
	et *exiftool.Exiftool
}

// NewExifDimensions starts exiftool.
func NewExifDimensions() (*ExifDimensions, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &ExifDimensions{et: et}, nil
}

// Close stops exiftool.
func (e *ExifDimensions) Close() error {
	return e.et.Close()
}

// Dimensions returns ErrNoDimensions if the image is missing or has no size tags.
func (e *ExifDimensions) Dimensions(path string) (int, int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrNoDimensions, err)
	}

	fis := e.et.ExtractMetadata(path)
	if len(fis) == 0 {
		return 0, 0, fmt.Errorf("%w: no metadata for %q", ErrNoDimensions, path)
	}
	fi := fis[0]
	if fi.Err != nil {
		return 0, 0, fmt.Errorf("%w: extract fail for %q: %v", ErrNoDimensions, path, fi.Err)
	}

	for k, v := range fi.Fields {
		klog.V(2).Infof("%q=%v", k, v)
	}

	w, err := fi.GetInt("ImageWidth")
	if err != nil {
		return 0, 0, fmt.Errorf("%w: get ImageWidth: %v", ErrNoDimensions, err)
	}

	h, err := fi.GetInt("ImageHeight")
	if err != nil {
		return 0, 0, fmt.Errorf("%w: get ImageHeight: %v", ErrNoDimensions, err)
	}

	return int(w), int(h), nil
}
