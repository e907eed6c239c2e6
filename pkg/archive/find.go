package archive

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glorpus-work/relfetch/pkg/errors"
)

// FindExecutable identifies the runnable artifact in an extracted tree.
//
// With a name, the first regular file (in lexical walk order) whose base name is name or
// name+".exe" is returned, or ErrExecutableNotFound. Without a name, the single executable
// regular file is returned; when there is none or more than one, the empty string is
// returned and the whole tree is the artifact.
func FindExecutable(root, name string) (string, error) {
	var (
		named       string
		executables []string
	)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		base := d.Name()
		if name != "" {
			if base == name || base == name+".exe" {
				named = path
				return fs.SkipAll
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode().Perm()&0o111 != 0 || strings.EqualFold(filepath.Ext(base), ".exe") {
			executables = append(executables, path)
		}
		return nil
	})
	if err != nil {
		return "", errors.NewIOError("walk", root, err)
	}

	if name != "" {
		if named == "" {
			return "", fmt.Errorf("%w: %s", errors.ErrExecutableNotFound, name)
		}
		return named, nil
	}
	if len(executables) == 1 {
		return executables[0], nil
	}
	return "", nil
}

// TreeRoot returns the directory that represents an extracted tree: the single top-level
// directory when the archive had exactly one entry and it was a directory, else root itself.
func TreeRoot(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", errors.NewIOError("readdir", root, err)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(root, entries[0].Name()), nil
	}
	return root, nil
}

// Entries lists the slash-separated paths of every entry below root, sorted.
func Entries(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.NewIOError("walk", root, err)
	}
	sort.Strings(out)
	return out, nil
}
