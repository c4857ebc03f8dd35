// Package resolve maps raw reference strings onto files in the index.
//
// Resolution is deliberately biased toward false negatives: a reference that
// cannot be located with confidence is treated as external and discarded
// rather than guessed at.
package resolve

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/strayscan/strayscan/internal/index"
)

// Resolver converts reference strings into indexed files. It only reads the
// immutable index, so a single Resolver is safe to share across workers.
type Resolver struct {
	idx        *index.FileIndex
	extensions []string
}

// New creates a resolver over the given index. Extensions are tried in the
// given order during fallback lookups.
func New(idx *index.FileIndex, extensions []string) *Resolver {
	return &Resolver{idx: idx, extensions: extensions}
}

// Resolve returns the indexed file a reference points at, or nil when the
// reference is external or cannot be located. A reference that resolves to
// its own originating file is unresolved: self-edges are invalid.
func (r *Resolver) Resolve(origin *index.SourceFile, ref string) *index.SourceFile {
	if ref == "" {
		return nil
	}

	var target *index.SourceFile
	if strings.HasPrefix(ref, ".") {
		target = r.resolveRelative(origin, ref)
	} else {
		target = r.resolveModule(ref)
	}

	if target == nil || target.Path == origin.Path {
		return nil
	}
	return target
}

// resolveRelative handles references with a relative-path marker. Checked in
// order: exact path, path plus each recognized extension, path as a
// directory holding an index file. First match wins.
func (r *Resolver) resolveRelative(origin *index.SourceFile, ref string) *index.SourceFile {
	base := filepath.Clean(filepath.Join(filepath.Dir(origin.Path), filepath.FromSlash(ref)))

	if f := r.idx.Lookup(base); f != nil {
		return f
	}

	for _, ext := range r.extensions {
		if f := r.idx.Lookup(base + ext); f != nil {
			return f
		}
	}

	for _, ext := range r.extensions {
		if f := r.idx.Lookup(filepath.Join(base, "index"+ext)); f != nil {
			return f
		}
	}

	return nil
}

// resolveModule handles absolute and dotted module references. Dots become
// path separators and the final segment is looked up against stem-keyed
// candidates; a candidate is accepted only when its path ends with the
// converted module path plus a recognized extension. Candidates are checked
// in directory-walk order, so ambiguous matches resolve to the first file
// found. References matching nothing are external.
func (r *Resolver) resolveModule(ref string) *index.SourceFile {
	converted := strings.ReplaceAll(ref, ".", "/")
	stem := path.Base(converted)

	for _, cand := range r.idx.ByStem(stem) {
		candPath := filepath.ToSlash(cand.Path)
		for _, ext := range r.extensions {
			if strings.HasSuffix(candPath, "/"+converted+ext) {
				return cand
			}
		}
	}

	return nil
}
