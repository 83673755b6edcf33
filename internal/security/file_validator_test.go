package security

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestFileValidator(t *testing.T) {
	t.Run("ValidSwiftFile", func(t *testing.T) {
		path := writeTempFile(t, "main.swift", []byte("import Foundation\n\nfunc main() {\n\tprint(\"hi\")\n}\n"))
		assert.NoError(t, NewFileValidator(1024).Validate(path))
	})

	t.Run("EmptyFile", func(t *testing.T) {
		path := writeTempFile(t, "empty.swift", nil)
		assert.NoError(t, NewFileValidator(1024).Validate(path))
	})

	t.Run("TooLarge", func(t *testing.T) {
		path := writeTempFile(t, "big.swift", []byte(strings.Repeat("let a = 1\n", 200)))
		err := NewFileValidator(100).Validate(path)
		assert.True(t, errors.Is(err, ErrTooLarge), "got %v", err)

		assert.NoError(t, NewFileValidator(0).Validate(path), "zero disables the limit")
	})

	t.Run("BinaryContent", func(t *testing.T) {
		path := writeTempFile(t, "image.swift", []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00})
		err := NewFileValidator(1024).Validate(path)
		assert.True(t, errors.Is(err, ErrBinary), "got %v", err)
	})

	t.Run("Directory", func(t *testing.T) {
		err := NewFileValidator(1024).Validate(t.TempDir())
		assert.True(t, errors.Is(err, ErrNotFile), "got %v", err)
	})

	t.Run("Missing", func(t *testing.T) {
		err := NewFileValidator(1024).Validate(filepath.Join(t.TempDir(), "nope.swift"))
		assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
	})
}

func TestIsBinaryData(t *testing.T) {
	assert.False(t, IsBinaryData(nil))
	assert.False(t, IsBinaryData([]byte("struct A {}\r\n\tvar x = 1\f")))
	assert.True(t, IsBinaryData([]byte("abc\x00def")))
	assert.True(t, IsBinaryData([]byte{1, 2, 3, 'a'}))
	assert.False(t, IsBinaryData([]byte{1, 'a', 'b', 'c'}))
}
