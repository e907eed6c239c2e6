package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/relfetch/pkg/errors"
)

// ScriptExtension is the file extension of hook scripts.
const ScriptExtension = ".tengo"

// Load registers the hooks found at path with manager.
//
// A file is registered as the post-fetch hook. A directory is searched for
// <hook-type>.tengo files, e.g. pre-fetch.tengo and post-fetch.tengo; other files are ignored.
// An empty path loads nothing.
func Load(manager HookManager, path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrHookLoad, err)
	}
	if !info.IsDir() {
		return loadFile(manager, PostFetch, path)
	}
	return loadHooksFromDir(manager, path)
}

// loadHooksFromDir loads all hook files from a directory
func loadHooksFromDir(manager HookManager, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: failed to read hooks directory %s: %w", errors.ErrHookLoad, dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ScriptExtension {
			continue
		}

		hookType := HookType(strings.TrimSuffix(entry.Name(), ScriptExtension))
		switch hookType {
		case PreFetch, PostFetch:
		default:
			continue
		}

		if err := loadFile(manager, hookType, filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func loadFile(manager HookManager, hookType HookType, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: error reading hook file %s: %w", errors.ErrHookLoad, path, err)
	}
	if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
		return fmt.Errorf("error adding hook %s: %w", hookType, err)
	}
	return nil
}

// HookTemplate generates a template for a hook script
func HookTemplate(hookType HookType) string {
	switch hookType {
	case PreFetch:
		return `// Pre-fetch hook
// This script runs after an asset was chosen and before it is downloaded
// Available variables:
// - repository: string - OWNER/REPO
// - tag: string - release tag
// - assetName: string - name of the chosen asset
// - downloadURL: string - where the asset is downloaded from
// - vars: map - custom variables passed to the hook
// Assign a message to err to abort the fetch.

// Example: refuse prereleases
/*
text := import("text")
if text.contains(tag, "-rc") {
    err = "refusing release candidate " + tag
}
*/`
	case PostFetch:
		return `// Post-fetch hook
// This script runs once the artifact is in place
// Available variables: as for pre-fetch, plus
// - localPath: string - path of the fetched file or directory
// - digest: string - hex digest of the downloaded asset
// - verified: bool - whether a checksum manifest vouched for the asset
// - extracted: bool - whether the asset was unpacked
// Assign a message to err to report failure.

// Example: insist on verified downloads
/*
if !verified {
    err = assetName + " was not verified"
}
*/`
	default:
		return "// Unknown hook type: " + string(hookType)
	}
}
