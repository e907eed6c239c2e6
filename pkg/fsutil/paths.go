package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppName is the name of the application used in paths.
	AppName = "relfetch"
	// ConfigFileName is the name of the configuration file inside the config directory.
	ConfigFileName = "config.yaml"
)

// ErrOutsideRoot is returned by SafeJoin when a name resolves outside the root.
var ErrOutsideRoot = errors.New("path escapes root")

// GetConfigDir returns the platform-specific configuration directory for the application.
// On Linux: ~/.config/relfetch/
// On macOS: ~/Library/Application Support/relfetch/
// On Windows: %AppData%\relfetch\
func GetConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// GetConfigPath returns the default configuration file path.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// SafeJoin joins an untrusted slash-separated name onto root and rejects anything
// that is absolute or climbs out of root.
func SafeJoin(root, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrOutsideRoot)
	}
	slashed := filepath.ToSlash(name)
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %s is absolute", ErrOutsideRoot, name)
	}
	joined := filepath.Join(root, filepath.FromSlash(slashed))
	if !Within(root, joined) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, name)
	}
	return joined, nil
}

// Within reports whether path is root or lies beneath it, lexically.
func Within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Exists reports whether something is present at path without following a final symlink.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
