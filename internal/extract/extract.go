// Package extract scans source text for outbound reference strings.
//
// Extractors yield raw, unresolved strings exactly as they appear in import
// statements; resolving them against the file index is a separate concern.
// Dialects without an extraction rule contribute nothing: a missing edge is
// preferable to a wrong one.
package extract

import "github.com/strayscan/strayscan/internal/index"

// Extractor yields the raw reference strings found in one file's text.
type Extractor interface {
	// References returns the reference strings in source order, one entry
	// per textual occurrence.
	References(content []byte) []string

	// Family returns the dialect family this extractor handles.
	Family() string
}

// Set holds one extractor per dialect family, reusable across files. Each
// worker builds its own set so compiled patterns are shared per worker, not
// per file.
type Set map[index.Dialect]Extractor

// NewSet builds the extractor set for all supported dialects.
//
// Go is deliberately absent: its grouped import blocks need real parsing,
// and Go imports are package paths rather than file references anyway.
func NewSet() Set {
	es := NewECMAScriptExtractor()
	return Set{
		index.DialectJavaScript: es,
		index.DialectTypeScript: es,
		index.DialectPython:     NewPythonExtractor(),
	}
}

// For returns the extractor for a dialect, or nil when the dialect has no
// extraction rule.
func (s Set) For(d index.Dialect) Extractor {
	return s[d]
}
