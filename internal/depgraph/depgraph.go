// Package depgraph aggregates resolved references into a file dependency
// graph with per-file inbound-reference counts.
//
// In-degree uses reference-count semantics: every resolved textual
// occurrence increments its target by one, without per-consumer
// deduplication. The adjacency structure deduplicates edges separately, so
// the unique edge set and the raw counts stay independently correct.
package depgraph

import (
	"errors"

	"github.com/dominikbraun/graph"

	"github.com/strayscan/strayscan/internal/index"
)

// Edge is one consumer → dependency reference between two indexed files,
// identified by absolute path.
type Edge struct {
	Consumer   string
	Dependency string
}

// Partial accumulates one worker's edges and in-degree increments during the
// parallel extraction phase. Partials are merged into a Builder in a single
// reduction step once all workers have finished, keeping the hot path free
// of shared-state synchronization.
type Partial struct {
	degrees map[string]int
	edges   []Edge
}

// NewPartial creates an empty partial table.
func NewPartial() *Partial {
	return &Partial{degrees: make(map[string]int)}
}

// Add records one resolved reference. Self-references are discarded.
func (p *Partial) Add(consumer, dependency *index.SourceFile) {
	if consumer == nil || dependency == nil || consumer.Path == dependency.Path {
		return
	}
	p.degrees[dependency.Path]++
	p.edges = append(p.edges, Edge{Consumer: consumer.Path, Dependency: dependency.Path})
}

// Len returns the number of recorded reference occurrences.
func (p *Partial) Len() int {
	return len(p.edges)
}

// Builder owns the merged in-degree table and the directed adjacency
// structure for one scan.
type Builder struct {
	degrees    map[string]int
	adjacency  graph.Graph[string, string]
	edgeCount  int
	references int
}

// NewBuilder seeds the table with every indexed file at in-degree zero and
// registers each file as a graph vertex.
func NewBuilder(idx *index.FileIndex) *Builder {
	g := graph.New(graph.StringHash, graph.Directed())
	degrees := make(map[string]int, idx.Len())
	for _, f := range idx.Files() {
		degrees[f.Path] = 0
		_ = g.AddVertex(f.Path)
	}
	return &Builder{degrees: degrees, adjacency: g}
}

// Merge folds one worker's partial table into the builder. Counts outside
// the indexed file set are dropped; duplicate (consumer, dependency) pairs
// collapse to a single adjacency edge while still contributing to counts.
func (b *Builder) Merge(p *Partial) {
	for path, n := range p.degrees {
		if _, ok := b.degrees[path]; !ok {
			continue
		}
		b.degrees[path] += n
		b.references += n
	}

	for _, e := range p.edges {
		err := b.adjacency.AddEdge(e.Consumer, e.Dependency)
		switch {
		case err == nil:
			b.edgeCount++
		case errors.Is(err, graph.ErrEdgeAlreadyExists):
			// Reference-count semantics live in the degree table; the
			// adjacency structure keeps unique pairs only.
		}
	}
}

// InDegree returns the inbound reference count for an indexed file.
func (b *Builder) InDegree(path string) int {
	return b.degrees[path]
}

// ReferenceCount returns the total number of merged reference occurrences.
func (b *Builder) ReferenceCount() int {
	return b.references
}

// EdgeCount returns the number of unique (consumer, dependency) pairs.
func (b *Builder) EdgeCount() int {
	return b.edgeCount
}

// ZeroInDegree returns the indexed files nothing references, in walk order.
func (b *Builder) ZeroInDegree(idx *index.FileIndex) []*index.SourceFile {
	var zero []*index.SourceFile
	for _, f := range idx.Files() {
		if b.degrees[f.Path] == 0 {
			zero = append(zero, f)
		}
	}
	return zero
}

// Edges returns the unique edge set in unspecified order.
func (b *Builder) Edges() []Edge {
	raw, err := b.adjacency.Edges()
	if err != nil {
		return nil
	}

	edges := make([]Edge, 0, len(raw))
	for _, e := range raw {
		edges = append(edges, Edge{Consumer: e.Source, Dependency: e.Target})
	}
	return edges
}
