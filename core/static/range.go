package static

import (
	"strconv"
	"strings"
)

// RangeSpec is an inclusive byte window of a file.
type RangeSpec struct {
	Start int64
	End   int64
}

// Length returns the number of bytes in the window.
func (r RangeSpec) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the Content-Range header value for a file of size bytes.
func (r RangeSpec) ContentRange(size int64) string {
	return "bytes " + strconv.FormatInt(r.Start, 10) + "-" + strconv.FormatInt(r.End, 10) + "/" + strconv.FormatInt(size, 10)
}

// ParseRange parses "bytes=<start>-[<end>]" against a file of size bytes.
// A missing end means the last byte of the file. Only a single range is
// supported; suffix ranges ("bytes=-500") are rejected.
//
// It returns ErrInvalidRange when a bound is not a number, is negative, or
// start > end, and ErrRangeNotSatisfiable when a bound is >= size.
func ParseRange(header string, size int64) (RangeSpec, error) {
	spec := strings.TrimSpace(header)
	spec = strings.TrimPrefix(spec, "bytes=")

	startStr, endStr, _ := strings.Cut(spec, "-")

	start, err := strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if err != nil {
		return RangeSpec{}, ErrInvalidRange
	}

	end := size - 1
	if endStr = strings.TrimSpace(endStr); endStr != "" {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return RangeSpec{}, ErrInvalidRange
		}
	}

	if start < 0 || end < 0 || start > end {
		return RangeSpec{}, ErrInvalidRange
	}
	if start >= size || end >= size {
		return RangeSpec{}, ErrRangeNotSatisfiable
	}
	return RangeSpec{Start: start, End: end}, nil
}
