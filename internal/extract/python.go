package extract

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// PythonExtractor extracts import references from Python sources using a
// regex-based approach.
//
// It matches `import X` and `from X import ...` at statement start (leading
// whitespace tolerated) and captures the dotted module path. The from-form
// additionally emits one dotted candidate per imported name, so
// `from utils import helper` can reach utils/helper.py when helper is a
// submodule rather than a symbol; candidates naming functions or classes
// simply fail resolution later. Only the first module of a comma-separated
// `import` list is captured.
type PythonExtractor struct {
	importRegex *regexp.Regexp
	nameRegex   *regexp.Regexp
}

// NewPythonExtractor creates a new Python extractor.
func NewPythonExtractor() *PythonExtractor {
	return &PythonExtractor{
		importRegex: regexp.MustCompile(`^\s*(?:import\s+([\w.]+)|from\s+([\w.]+)\s+import\s+(.*))`),
		nameRegex:   regexp.MustCompile(`^\w+`),
	}
}

// Family returns the dialect family this extractor handles.
func (e *PythonExtractor) Family() string {
	return "python"
}

// References returns the dotted module paths in source order.
func (e *PythonExtractor) References(content []byte) []string {
	var refs []string

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := e.importRegex.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		if m[1] != "" {
			refs = append(refs, m[1])
			continue
		}
		refs = append(refs, m[2])
		refs = append(refs, e.memberCandidates(m[2], m[3])...)
	}

	return refs
}

// memberCandidates expands the imported names of a from-import into dotted
// module candidates: `from utils import helper, shared` yields utils.helper
// and utils.shared. Aliases are dropped; `*` and parentheses contribute
// nothing.
func (e *PythonExtractor) memberCandidates(module, names string) []string {
	if i := strings.Index(names, "#"); i >= 0 {
		names = names[:i]
	}
	names = strings.NewReplacer("(", "", ")", "").Replace(names)

	var out []string
	for _, part := range strings.Split(names, ",") {
		name := e.nameRegex.FindString(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		out = append(out, module+"."+name)
	}
	return out
}
