// Package index holds the hierarchical source-code index built while scanning:
// one project containing packages, files, classes, and functions, each
// carrying raw and aggregated metrics. Files own the issues reported on them.
//
// The index is a single-writer structure: callers that mutate it from several
// goroutines must serialize access themselves.
package index

import (
	"errors"
	"fmt"
)

// Sentinel errors for index mutation.
var (
	// ErrKindConflict indicates a key already used by an entity of another kind under the same parent.
	ErrKindConflict = errors.New("key already used by a different kind")
	// ErrForeignParent indicates a parent that belongs to another index.
	ErrForeignParent = errors.New("parent does not belong to this index")
	// ErrInvalidNesting indicates a kind that cannot be nested under the parent's kind.
	ErrInvalidNesting = errors.New("invalid nesting")
	// ErrEmptyKey indicates an entity without a key.
	ErrEmptyKey = errors.New("empty entity key")
	// ErrNoFile indicates an issue reported outside of any file.
	ErrNoFile = errors.New("no enclosing file")
	// ErrLineOutOfRange indicates an issue line outside the file.
	ErrLineOutOfRange = errors.New("issue line out of range")
)

type entityRef struct {
	kind Kind
	key  string
}

// Index is the root of the source-code hierarchy.
type Index struct {
	project  *SourceCode
	byKey    map[entityRef]*SourceCode
	byKind   map[Kind][]*SourceCode
	entities int
}

// New creates an index with a project entity named projectKey.
func New(projectKey string) *Index {
	idx := &Index{
		byKey:  make(map[entityRef]*SourceCode),
		byKind: make(map[Kind][]*SourceCode),
	}

	idx.project = newSourceCode(idx, Project, projectKey, nil)
	idx.register(idx.project)

	return idx
}

// Project returns the root entity.
func (idx *Index) Project() *SourceCode { return idx.project }

// Len returns the number of entities, the project included.
func (idx *Index) Len() int { return idx.entities }

// GetOrCreate returns the child of parent with the given kind and key,
// creating it on first use. It is idempotent per (kind, key, parent).
func (idx *Index) GetOrCreate(kind Kind, key string, parent *SourceCode) (*SourceCode, error) {
	if key == "" {
		return nil, fmt.Errorf("get or create %s: %w", kind, ErrEmptyKey)
	}

	if parent == nil || parent.owner != idx {
		return nil, fmt.Errorf("get or create %s %q: %w", kind, key, ErrForeignParent)
	}

	if existing := parent.byKey[key]; existing != nil {
		if existing.kind != kind {
			return nil, fmt.Errorf("get or create %s %q under %s: %w (existing %s)",
				kind, key, parent.QualifiedKey(), ErrKindConflict, existing.kind)
		}

		return existing, nil
	}

	if !parent.kind.CanContain(kind) {
		return nil, fmt.Errorf("get or create %s %q under %s %s: %w",
			kind, key, parent.kind, parent.QualifiedKey(), ErrInvalidNesting)
	}

	child := newSourceCode(idx, kind, key, parent)
	parent.children = append(parent.children, child)
	parent.byKey[key] = child
	idx.register(child)

	return child, nil
}

func (idx *Index) register(s *SourceCode) {
	idx.byKey[entityRef{kind: s.kind, key: s.QualifiedKey()}] = s
	idx.byKind[s.kind] = append(idx.byKind[s.kind], s)
	idx.entities++
}

// Get returns the entity of the given kind with the given qualified key, or nil.
func (idx *Index) Get(kind Kind, qualifiedKey string) *SourceCode {
	return idx.byKey[entityRef{kind: kind, key: qualifiedKey}]
}

// Search returns every entity of the given kind in creation order.
func (idx *Index) Search(kind Kind) []*SourceCode {
	return append([]*SourceCode(nil), idx.byKind[kind]...)
}

// Issues returns every issue of every file, files in creation order.
func (idx *Index) Issues() []Issue {
	var out []Issue

	for _, file := range idx.byKind[File] {
		out = append(out, file.Issues()...)
	}

	return out
}
