package analysis

import (
	"sort"
	"time"

	"github.com/strayscan/strayscan/internal/depgraph"
	"github.com/strayscan/strayscan/internal/index"
)

// Result is the assembled output of one scan. Both classification lists are
// sorted lexicographically by root-relative path and are disjoint; together
// they cover exactly the zero-in-degree subset of the indexed files.
type Result struct {
	// Orphans are zero-in-degree files not matching any whitelist pattern.
	Orphans []string

	// EntryPoints are zero-in-degree files matching a whitelist pattern.
	EntryPoints []string

	// TotalFiles is the number of indexed files.
	TotalFiles int

	// References is the number of resolved reference occurrences.
	References int

	// Edges is the unique (consumer, dependency) pair set, sorted by
	// consumer then dependency, with root-relative paths.
	Edges []depgraph.Edge

	// DurationSecs is the wall-clock scan time.
	DurationSecs float64
}

// assemble packages the classified lists and graph stats deterministically.
func assemble(idx *index.FileIndex, builder *depgraph.Builder, orphans, entryPoints []string, elapsed time.Duration) *Result {
	sort.Strings(orphans)
	sort.Strings(entryPoints)

	edges := make([]depgraph.Edge, 0, builder.EdgeCount())
	for _, e := range builder.Edges() {
		consumer := idx.Lookup(e.Consumer)
		dependency := idx.Lookup(e.Dependency)
		if consumer == nil || dependency == nil {
			continue
		}
		edges = append(edges, depgraph.Edge{
			Consumer:   consumer.RelPath,
			Dependency: dependency.RelPath,
		})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Consumer != edges[j].Consumer {
			return edges[i].Consumer < edges[j].Consumer
		}
		return edges[i].Dependency < edges[j].Dependency
	})

	return &Result{
		Orphans:      orphans,
		EntryPoints:  entryPoints,
		TotalFiles:   idx.Len(),
		References:   builder.ReferenceCount(),
		Edges:        edges,
		DurationSecs: elapsed.Seconds(),
	}
}
