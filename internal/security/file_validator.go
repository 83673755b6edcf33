// Package security screens candidate files before they are read in full,
// so oversized or binary files never reach a parser.
package security

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrTooLarge = errors.New("file exceeds the size limit")
	ErrBinary   = errors.New("file appears to be binary")
	ErrNotFile  = errors.New("not a regular file")
)

const DefaultHeaderSize = 8 * 1024

// FileValidator checks size and reads only a header to reject binary data.
type FileValidator struct {
	MaxFileSize int64 // 0 disables the size check
	HeaderSize  int64
}

func NewFileValidator(maxFileSize int64) *FileValidator {
	return &FileValidator{
		MaxFileSize: maxFileSize,
		HeaderSize:  DefaultHeaderSize,
	}
}

// Validate returns nil when path looks like a text source file of
// acceptable size. Rejections wrap ErrTooLarge, ErrBinary or ErrNotFile.
func (fv *FileValidator) Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotFile)
	}
	if fv.MaxFileSize > 0 && info.Size() > fv.MaxFileSize {
		return fmt.Errorf("%s is %d bytes (limit %d): %w", path, info.Size(), fv.MaxFileSize, ErrTooLarge)
	}
	if info.Size() == 0 {
		return nil
	}

	// #nosec G304 -- path comes from discovery
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, fv.HeaderSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if IsBinaryData(header[:n]) {
		return fmt.Errorf("%s: %w", path, ErrBinary)
	}
	return nil
}

// IsBinaryData reports whether data holds a NUL byte or more than 30%
// control characters other than tab, LF, VT, FF and CR.
func IsBinaryData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return true
	}

	nonPrintable := 0
	for _, b := range data {
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(data)) > 0.3
}
