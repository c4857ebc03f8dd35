// Package index builds the canonical registry of source files for a scan.
//
// The registry is produced by a single directory walk and is immutable
// afterwards, which lets the extraction and resolution phases read it
// concurrently without locks.
package index

import (
	"path/filepath"
	"strings"
)

// Dialect is the source-language family of a file, inferred from its
// extension. It selects which reference-extraction rule applies.
type Dialect string

const (
	DialectJavaScript Dialect = "javascript"
	DialectTypeScript Dialect = "typescript"
	DialectPython     Dialect = "python"
	DialectGo         Dialect = "go"
)

// SourceFile is one indexed file. Immutable once registered.
type SourceFile struct {
	// Path is the absolute file path.
	Path string

	// RelPath is the slash-separated path relative to the scan root.
	RelPath string

	// Base is the file basename.
	Base string

	// Stem is the basename without its extension.
	Stem string

	// Dialect is the detected source dialect.
	Dialect Dialect
}

// FileIndex maps the indexed file set three ways: by full path for exact
// lookups, and by basename and stem for candidate lookups during module-path
// resolution. Candidate lists preserve directory-walk order, which is the
// tie-break order for ambiguous resolutions.
type FileIndex struct {
	root   string
	files  []*SourceFile
	byPath map[string]*SourceFile
	byBase map[string][]*SourceFile
	byStem map[string][]*SourceFile
}

func newFileIndex(root string) *FileIndex {
	return &FileIndex{
		root:   root,
		byPath: make(map[string]*SourceFile),
		byBase: make(map[string][]*SourceFile),
		byStem: make(map[string][]*SourceFile),
	}
}

// add registers a file under its path, basename, and stem. Files already
// present are left untouched so every file appears exactly once.
func (x *FileIndex) add(f *SourceFile) {
	if _, ok := x.byPath[f.Path]; ok {
		return
	}
	x.files = append(x.files, f)
	x.byPath[f.Path] = f
	x.byBase[f.Base] = append(x.byBase[f.Base], f)
	x.byStem[f.Stem] = append(x.byStem[f.Stem], f)
}

// Root returns the absolute scan root.
func (x *FileIndex) Root() string {
	return x.root
}

// Len returns the number of indexed files.
func (x *FileIndex) Len() int {
	return len(x.files)
}

// Files returns all indexed files in directory-walk order.
func (x *FileIndex) Files() []*SourceFile {
	return x.files
}

// Lookup returns the file registered under the given absolute path, or nil.
func (x *FileIndex) Lookup(absPath string) *SourceFile {
	return x.byPath[absPath]
}

// ByBase returns the files sharing a basename, in walk order.
func (x *FileIndex) ByBase(base string) []*SourceFile {
	return x.byBase[base]
}

// ByStem returns the files sharing a stem, in walk order.
func (x *FileIndex) ByStem(stem string) []*SourceFile {
	return x.byStem[stem]
}

// stemOf strips the extension from a basename.
func stemOf(base string) string {
	return strings.TrimSuffix(base, filepath.Ext(base))
}
