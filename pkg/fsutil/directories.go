package fsutil

import (
	"os"
	"path/filepath"
)

// EnsureDir creates a directory and all necessary parent directories with default permissions if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirModeDefault)
}

// EnsureFileDir creates the parent directory of a file path if it doesn't exist.
func EnsureFileDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}

// MkStaging creates a private staging directory inside parent. Staging lives on the same
// filesystem as the final destination so that publishing is a rename.
// The returned cleanup removes the directory and everything left in it.
func MkStaging(parent string) (string, func(), error) {
	if err := EnsureDir(parent); err != nil {
		return "", func() {}, err
	}
	dir, err := os.MkdirTemp(parent, StagingPrefix+"*")
	if err != nil {
		return "", func() {}, err
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}
