// Package fsutil provides the filesystem helpers used while staging and placing fetched artifacts.
package fsutil

// File and directory permission constants.
const (
	// Default file modes.
	FileModeDefault = 0o644 // -rw-r--r--
	FileModeExec    = 0o755 // -rwxr-xr-x

	// Directory modes.
	DirModeDefault = 0o755 // drwxr-xr-x
	DirModePrivate = 0o700 // drwx------

	// StagingPrefix marks private working directories created next to a destination.
	StagingPrefix = ".relfetch-"
)
