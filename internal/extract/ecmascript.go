package extract

import "regexp"

// ECMAScriptExtractor extracts import references from JavaScript and
// TypeScript sources using a regex-based approach.
//
// It matches the quoted module specifier of `import ... from`,
// `export ... from`, bare side-effect imports, and `require(...)` calls,
// with either quote style. The construct must start a statement (line start,
// or after `;` or `}`), which keeps keyword occurrences inside comments or
// identifiers from producing references.
type ECMAScriptExtractor struct {
	importRegex *regexp.Regexp
}

// NewECMAScriptExtractor creates a new ECMAScript extractor.
func NewECMAScriptExtractor() *ECMAScriptExtractor {
	return &ECMAScriptExtractor{
		importRegex: regexp.MustCompile(`(?m)(?:^|;|\})\s*(?:import\s+(?:[^"']*\s+from\s+)?|export\s+(?:[^"']*\s+from\s+)?|require\s*\(\s*)["']([^"']+)["']`),
	}
}

// Family returns the dialect family this extractor handles.
func (e *ECMAScriptExtractor) Family() string {
	return "ecmascript"
}

// References returns the module specifiers in source order.
func (e *ECMAScriptExtractor) References(content []byte) []string {
	matches := e.importRegex.FindAllSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, string(m[1]))
	}
	return refs
}
