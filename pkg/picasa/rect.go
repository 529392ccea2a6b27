package picasa

import (
	"fmt"
	"strconv"
	"strings"
)

// rect64Max is the value a rect64 field takes at the far edge of the image.
const rect64Max = 65535

// Rectangle is a face region in image pixel space.
type Rectangle struct {
	X      int `json:"xCoord"`
	Y      int `json:"yCoord"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DecodeRect64 converts a packed rect64 value into pixel coordinates for an image of the given size.
//
// The value holds four 16-bit fractions of the image size: left, top, right, bottom.
// Short values are zero-padded on the left. Inverted coordinates produce a negative
// width or height, which is passed through as-is. An image size of 0x0 yields the
// zero rectangle.
func DecodeRect64(packed string, width, height int) (Rectangle, error) {
	if len(packed) > 16 {
		return Rectangle{}, fmt.Errorf("%w: %q is longer than 16 characters", ErrFormat, packed)
	}
	packed = strings.Repeat("0", 16-len(packed)) + packed

	var f [4]int64
	for i := range f {
		v, err := strconv.ParseUint(packed[i*4:i*4+4], 16, 16)
		if err != nil {
			return Rectangle{}, fmt.Errorf("%w: %q: %v", ErrFormat, packed, err)
		}
		f[i] = int64(v)
	}

	left := scale(f[0], width)
	top := scale(f[1], height)
	right := scale(f[2], width)
	bottom := scale(f[3], height)

	return Rectangle{
		X:      left,
		Y:      top,
		Width:  right - left,
		Height: bottom - top,
	}, nil
}

func scale(field int64, size int) int {
	return int(field * int64(size) / rect64Max)
}
