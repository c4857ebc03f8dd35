package index

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/gobwas/glob"
)

// WalkOptions carries the filtering rules for one index build. The option
// value is read-only during the walk; callers construct a fresh one per scan.
type WalkOptions struct {
	// Dialects maps recognized extensions (lowercase, with dot) to their
	// dialect family. Files with other extensions are not indexed.
	Dialects map[string]Dialect

	// SkipDirs are directory basenames pruned before descending.
	SkipDirs map[string]struct{}

	// Ignore holds user-supplied glob patterns matched against
	// slash-separated root-relative paths.
	Ignore []glob.Glob

	// Warn receives non-fatal diagnostics. Nil discards them.
	Warn func(format string, args ...any)
}

// Build walks root once and returns the complete file index.
//
// Excluded directories are pruned before descending, not filtered afterward.
// Unreadable subdirectories are skipped with a warning. Symlinked directories
// are not followed, so cycles cannot cause repeated traversal. A root that is
// missing, not a directory, or unreadable is fatal.
func Build(root string, opts WalkOptions) (*FileIndex, error) {
	rootPath, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", rootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", rootPath)
	}

	matcher := loadGitignoreMatcher(rootPath)
	idx := newFileIndex(rootPath)

	err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// An unreadable root is a failed precondition, not a skippable
			// subtree.
			if path == rootPath {
				return err
			}
			opts.warnf("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != rootPath && shouldSkipDir(d.Name(), path, rootPath, opts, matcher) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		dialect, ok := opts.Dialects[ext]
		if !ok {
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if isIgnored(relPath, opts.Ignore) {
			return nil
		}
		if matcher != nil && matcher.Match(strings.Split(relPath, "/"), false) {
			return nil
		}

		base := d.Name()
		idx.add(&SourceFile{
			Path:    path,
			RelPath: relPath,
			Base:    base,
			Stem:    stemOf(base),
			Dialect: dialect,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", rootPath, err)
	}

	return idx, nil
}

// loadGitignoreMatcher parses the root .gitignore, if present.
func loadGitignoreMatcher(rootPath string) gitignore.Matcher {
	content, err := os.ReadFile(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		return nil
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if len(patterns) == 0 {
		return nil
	}

	return gitignore.NewMatcher(patterns)
}

// shouldSkipDir checks whether a directory is pruned from the walk.
func shouldSkipDir(name, path, rootPath string, opts WalkOptions, matcher gitignore.Matcher) bool {
	// Hidden directories are always pruned.
	if strings.HasPrefix(name, ".") {
		return true
	}

	if _, ok := opts.SkipDirs[name]; ok {
		return true
	}

	relPath, err := filepath.Rel(rootPath, path)
	if err != nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	if isIgnored(relPath, opts.Ignore) {
		return true
	}

	return matcher != nil && matcher.Match(strings.Split(relPath, "/"), true)
}

func isIgnored(relPath string, patterns []glob.Glob) bool {
	for _, g := range patterns {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}

func (o WalkOptions) warnf(format string, args ...any) {
	if o.Warn != nil {
		o.Warn(format, args...)
	}
}
