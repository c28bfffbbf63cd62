package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"code-analyzer/src/config"
	"code-analyzer/src/model"
	"code-analyzer/src/util"
)

// RootError is returned when the analysis root cannot be walked at all
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("invalid analysis root %s: %v", e.Root, e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

// ErrNotDirectory is wrapped by RootError when the root is a regular file
var ErrNotDirectory = errors.New("not a directory")

// Discoverer finds candidate source files under a root directory
type Discoverer struct {
	extensions  map[string]bool
	ignoredDirs map[string]bool
}

// NewDiscoverer creates a discoverer from the discovery config
func NewDiscoverer(cfg config.DiscoveryConfig) *Discoverer {
	d := &Discoverer{
		extensions:  make(map[string]bool, len(cfg.Extensions)),
		ignoredDirs: make(map[string]bool, len(cfg.IgnoredDirs)),
	}
	for _, ext := range cfg.Extensions {
		d.extensions[strings.ToLower(ext)] = true
	}
	for _, dir := range cfg.IgnoredDirs {
		d.ignoredDirs[dir] = true
	}
	return d
}

// Discover walks root and returns the matching file paths in lexicographic
// order. Unreadable sub-entries are skipped and reported as warnings.
func (d *Discoverer) Discover(ctx context.Context, root string) ([]string, []model.FileWarning, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, &RootError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, nil, &RootError{Root: root, Err: ErrNotDirectory}
	}

	var (
		files    []string
		warnings []model.FileWarning
	)

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if path == root {
				return walkErr
			}
			util.Warn("Skipping %s: %v", path, walkErr)
			warnings = append(warnings, model.FileWarning{
				Path:  RelPath(root, path),
				Kind:  model.WarningWalk,
				Cause: walkErr.Error(),
			})
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if path != root && d.ignoredDirs[entry.Name()] {
				util.Debug("Skipping ignored directory %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}
		if !d.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if d.hasIgnoredSegment(RelPath(root, path)) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, warnings, err
		}
		return nil, warnings, &RootError{Root: root, Err: err}
	}

	sort.Strings(files)
	util.Debug("Discovered %d files under %s (%d warnings)", len(files), root, len(warnings))
	return files, warnings, nil
}

// hasIgnoredSegment checks every directory segment of a root-relative path
func (d *Discoverer) hasIgnoredSegment(rel string) bool {
	segments := strings.Split(rel, "/")
	for _, seg := range segments[:len(segments)-1] {
		if d.ignoredDirs[seg] {
			return true
		}
	}
	return false
}

// RelPath returns path relative to root using forward slashes
func RelPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
