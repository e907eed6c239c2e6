// Package archive unpacks downloaded release assets without letting any entry escape the
// extraction root.
package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	"github.com/glorpus-work/relfetch/pkg/errors"
	"github.com/glorpus-work/relfetch/pkg/fsutil"
)

// Manager handles archive extraction and decompression.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

var decompressors = map[Kind]archives.Decompressor{
	KindGz:  archives.Gz{},
	KindXz:  archives.Xz{},
	KindBz2: archives.Bz2{},
	KindZst: archives.Zstd{},
}

// Extract unpacks the archive at archivePath into destDir. name is the published asset
// name and is used to identify the format. Every entry is checked before it is written;
// the first entry that would land outside destDir aborts extraction with an
// *errors.UnsafeArchiveError.
func (am *Manager) Extract(ctx context.Context, archivePath, name, destDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return errors.NewIOError("open", archivePath, err)
	}
	defer func() { _ = file.Close() }()

	format, stream, err := archives.Identify(ctx, name, file)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrUnsupportedArchive, name, err)
	}
	extractor, ok := format.(archives.Extractor)
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnsupportedArchive, name)
	}

	if err := os.MkdirAll(destDir, fsutil.DirModeDefault); err != nil {
		return errors.NewIOError("mkdir", destDir, err)
	}

	root, err := filepath.Abs(destDir)
	if err != nil {
		return errors.NewIOError("abs", destDir, err)
	}

	return extractor.Extract(ctx, stream, func(ctx context.Context, f archives.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return am.extractEntry(root, f)
	})
}

// extractEntry processes a single archive entry and writes it below root.
func (am *Manager) extractEntry(root string, f archives.FileInfo) error {
	name := strings.TrimPrefix(filepath.ToSlash(f.NameInArchive), "./")
	if name == "" || name == "." {
		return nil
	}

	targetPath, err := fsutil.SafeJoin(root, name)
	if err != nil {
		return &errors.UnsafeArchiveError{Entry: f.NameInArchive, Reason: "path escapes destination"}
	}
	if err := checkParents(root, targetPath, f.NameInArchive); err != nil {
		return err
	}

	if hdr, ok := f.Header.(*tar.Header); ok && hdr.Typeflag == tar.TypeLink {
		return am.writeHardlink(root, targetPath, f)
	}

	mode := f.Mode()
	switch {
	case f.IsDir():
		if err := os.MkdirAll(targetPath, fsutil.DirModeDefault); err != nil {
			return errors.NewIOError("mkdir", targetPath, err)
		}
		return nil
	case mode&os.ModeSymlink != 0:
		return am.writeSymlink(root, targetPath, f)
	case mode.IsRegular():
		return am.writeRegularFile(targetPath, f)
	default:
		// devices, fifos and sockets have no place in a release
		return nil
	}
}

// checkParents rejects entries whose parent directories already exist as symlinks.
// Link targets are only checked lexically, so writing through one is refused outright.
func checkParents(root, targetPath, entry string) error {
	rel, err := filepath.Rel(root, filepath.Dir(targetPath))
	if err != nil || rel == "." {
		return nil
	}
	current := root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, part)
		info, err := os.Lstat(current)
		if err != nil {
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return &errors.UnsafeArchiveError{Entry: entry, Reason: "path traverses a symlink"}
		}
	}
	return nil
}

// writeSymlink creates a symlink whose target stays below root.
func (am *Manager) writeSymlink(root, targetPath string, f archives.FileInfo) error {
	linkTarget := f.LinkTarget
	if linkTarget == "" {
		return &errors.UnsafeArchiveError{Entry: f.NameInArchive, Reason: "symlink without target"}
	}
	if path.IsAbs(filepath.ToSlash(linkTarget)) || filepath.IsAbs(linkTarget) {
		return &errors.UnsafeArchiveError{Entry: f.NameInArchive, Reason: "absolute symlink target " + linkTarget}
	}
	resolved := filepath.Join(filepath.Dir(targetPath), filepath.FromSlash(linkTarget))
	if !fsutil.Within(root, resolved) {
		return &errors.UnsafeArchiveError{Entry: f.NameInArchive, Reason: "symlink target escapes destination: " + linkTarget}
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return errors.NewIOError("mkdir", filepath.Dir(targetPath), err)
	}
	_ = os.Remove(targetPath)
	if err := os.Symlink(linkTarget, targetPath); err != nil {
		return errors.NewIOError("symlink", targetPath, err)
	}
	return nil
}

// writeHardlink links targetPath to an already extracted regular file below root.
func (am *Manager) writeHardlink(root, targetPath string, f archives.FileInfo) error {
	source, err := fsutil.SafeJoin(root, strings.TrimPrefix(filepath.ToSlash(f.LinkTarget), "./"))
	if err != nil {
		return &errors.UnsafeArchiveError{Entry: f.NameInArchive, Reason: "hardlink target escapes destination: " + f.LinkTarget}
	}
	info, err := os.Lstat(source)
	if err != nil || !info.Mode().IsRegular() {
		return &errors.UnsafeArchiveError{Entry: f.NameInArchive, Reason: "hardlink target is not an extracted file: " + f.LinkTarget}
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return errors.NewIOError("mkdir", filepath.Dir(targetPath), err)
	}
	_ = os.Remove(targetPath)
	if err := os.Link(source, targetPath); err != nil {
		return errors.NewIOError("link", targetPath, err)
	}
	return nil
}

// writeRegularFile writes a regular file from the archive entry to targetPath and preserves metadata.
func (am *Manager) writeRegularFile(targetPath string, f archives.FileInfo) error {
	srcFile, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", f.NameInArchive, err)
	}
	defer func() { _ = srcFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(targetPath), fsutil.DirModeDefault); err != nil {
		return errors.NewIOError("mkdir", filepath.Dir(targetPath), err)
	}

	// an earlier entry may have left a symlink here
	_ = os.Remove(targetPath)

	perm := f.Mode().Perm() | 0o600
	dstFile, err := fsutil.CreateFilePerm(targetPath, perm)
	if err != nil {
		return errors.NewIOError("create", targetPath, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return errors.NewIOError("write", targetPath, err)
	}
	if err := dstFile.Close(); err != nil {
		return errors.NewIOError("close", targetPath, err)
	}

	if err := os.Chmod(targetPath, perm); err != nil {
		return errors.NewIOError("chmod", targetPath, err)
	}
	if mt := f.ModTime(); !mt.IsZero() {
		_ = os.Chtimes(targetPath, mt, mt)
	}
	return nil
}

// Decompress writes the decompressed content of a single compressed file to dst and marks it executable.
func (am *Manager) Decompress(ctx context.Context, srcPath string, kind Kind, dst string) error {
	decompressor, ok := decompressors[kind]
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnsupportedArchive, kind)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return errors.NewIOError("open", srcPath, err)
	}
	defer func() { _ = src.Close() }()

	reader, err := decompressor.OpenReader(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrUnsupportedArchive, kind, err)
	}
	defer func() { _ = reader.Close() }()

	if err := fsutil.EnsureFileDir(dst); err != nil {
		return errors.NewIOError("mkdir", filepath.Dir(dst), err)
	}
	out, err := fsutil.CreateFilePerm(dst, fsutil.FileModeExec)
	if err != nil {
		return errors.NewIOError("create", dst, err)
	}

	if _, err := io.Copy(out, &contextReader{ctx: ctx, r: reader}); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to decompress %s: %w", srcPath, err)
	}
	if err := out.Close(); err != nil {
		return errors.NewIOError("close", dst, err)
	}
	return os.Chmod(dst, fsutil.FileModeExec)
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
