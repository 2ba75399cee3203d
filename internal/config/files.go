package config

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var skipDirs = []string{"node_modules", "dist", "build"}

// Matches reports whether relPath is included and not excluded.
func (c *Config) Matches(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	return matchesAny(relPath, c.Include) && !matchesAny(relPath, c.Exclude)
}

// Files walks root and returns the files selected by Include and Exclude,
// sorted. Hidden directories, common build and dependency directories and
// the directories named in skip are not entered.
func (c *Config) Files(root string, skip ...string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && (shouldSkipDirectory(d.Name()) || slices.Contains(skip, path)) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if c.Matches(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

func shouldSkipDirectory(name string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(skipDirs, name)
}

func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
