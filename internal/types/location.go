package types

import (
	"errors"
	"fmt"
)

// FileID identifies one source buffer for the lifetime of a lint run.
type FileID uint32

// ErrCrossFileComparison is returned when two locations from different files
// are ordered against each other. Offsets are only comparable within a file.
var ErrCrossFileComparison = errors.New("cannot compare locations from different files")

// Location is an offset into a single source buffer.
type Location struct {
	File   FileID `json:"file_id"`
	Offset int    `json:"offset"`
}

// NewLocation creates a location; negative offsets are clamped to zero.
func NewLocation(file FileID, offset int) Location {
	if offset < 0 {
		offset = 0
	}
	return Location{File: file, Offset: offset}
}

// Compare returns -1, 0 or 1 ordering l against other by offset.
func (l Location) Compare(other Location) (int, error) {
	if l.File != other.File {
		return 0, fmt.Errorf("%w: file %d vs file %d", ErrCrossFileComparison, l.File, other.File)
	}
	switch {
	case l.Offset < other.Offset:
		return -1, nil
	case l.Offset > other.Offset:
		return 1, nil
	default:
		return 0, nil
	}
}

// Before reports whether l sorts before other. It panics when the two
// locations belong to different files: callers only sort within a file, so
// reaching that case is a programming error.
func (l Location) Before(other Location) bool {
	c, err := l.Compare(other)
	if err != nil {
		panic(err)
	}
	return c < 0
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.File, l.Offset)
}

// Range is a span of Length bytes starting at Location.
type Range struct {
	Location
	Length int `json:"length"`
}

// NewRange creates a range; a negative length is treated as empty.
func NewRange(loc Location, length int) Range {
	if length < 0 {
		length = 0
	}
	return Range{Location: loc, Length: length}
}

// End is the exclusive end offset of the range.
func (r Range) End() int {
	return r.Offset + r.Length
}

// Empty reports whether the range covers no bytes.
func (r Range) Empty() bool {
	return r.Length == 0
}

// ContainsStrict reports whether loc lies strictly inside the range:
// start < loc < end. Both boundaries are outside. Locations in another file
// are never contained.
func (r Range) ContainsStrict(loc Location) bool {
	if r.File != loc.File {
		return false
	}
	return r.Offset < loc.Offset && loc.Offset < r.End()
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d", r.File, r.Offset, r.End())
}
