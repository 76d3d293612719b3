package index

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
)

// KeySeparator joins the keys of an entity's ancestors into its qualified key.
const KeySeparator = ":"

// Issue is a rule violation reported against a line of a file.
type Issue struct {
	RuleKey string `json:"rule" yaml:"rule"`
	Line    int    `json:"line" yaml:"line"`
	Message string `json:"message" yaml:"message"`
	// File is the qualified key of the owning file entity.
	File string `json:"-" yaml:"-"`
}

// SourceCode is one entity of the index: the project, a package, a file,
// a class (an Erlang module), or a function.
type SourceCode struct {
	owner    *Index
	kind     Kind
	key      string
	parent   *SourceCode
	children []*SourceCode
	byKey    map[string]*SourceCode

	raw        map[string]float64
	aggregated map[string]float64

	lineCount int
	issues    []Issue
}

func newSourceCode(owner *Index, kind Kind, key string, parent *SourceCode) *SourceCode {
	return &SourceCode{
		owner:  owner,
		kind:   kind,
		key:    key,
		parent: parent,
		byKey:  make(map[string]*SourceCode),
		raw:    make(map[string]float64),
	}
}

// Kind returns the entity kind.
func (s *SourceCode) Kind() Kind { return s.kind }

// Key returns the key of the entity, unique among its siblings.
func (s *SourceCode) Key() string { return s.key }

// Parent returns the enclosing entity, nil for the project.
func (s *SourceCode) Parent() *SourceCode { return s.parent }

// Children returns the nested entities in creation order.
func (s *SourceCode) Children() []*SourceCode { return slices.Clone(s.children) }

// Child returns the direct child with the given key, or nil.
func (s *SourceCode) Child(key string) *SourceCode { return s.byKey[key] }

// QualifiedKey joins the keys from the project down to this entity.
func (s *SourceCode) QualifiedKey() string {
	if s.parent == nil {
		return s.key
	}

	return s.parent.QualifiedKey() + KeySeparator + s.key
}

// Ancestor returns the nearest entity of the given kind, starting with s itself.
func (s *SourceCode) Ancestor(kind Kind) *SourceCode {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.kind == kind {
			return cur
		}
	}

	return nil
}

// AddMetric adds delta to the raw value of a metric.
func (s *SourceCode) AddMetric(name string, delta float64) {
	s.raw[name] += delta
}

// SetMetric overwrites the raw value of a metric.
func (s *SourceCode) SetMetric(name string, value float64) {
	s.raw[name] = value
}

// RawMetric returns the value recorded on this entity, ignoring children.
func (s *SourceCode) RawMetric(name string) float64 {
	return s.raw[name]
}

// RawMetrics returns a copy of the raw metric values.
func (s *SourceCode) RawMetrics() map[string]float64 {
	return maps.Clone(s.raw)
}

// Metric returns the aggregated value once the index is decorated, and the
// raw value before that.
func (s *SourceCode) Metric(name string) float64 {
	if s.aggregated != nil {
		return s.aggregated[name]
	}

	return s.raw[name]
}

// Metrics returns a copy of every metric value, aggregated when decorated.
func (s *SourceCode) Metrics() map[string]float64 {
	if s.aggregated != nil {
		return maps.Clone(s.aggregated)
	}

	return maps.Clone(s.raw)
}

// Decorated reports whether aggregated values are present.
func (s *SourceCode) Decorated() bool { return s.aggregated != nil }

// SetAggregated replaces the aggregated metric values. Used by the metric decorator.
func (s *SourceCode) SetAggregated(values map[string]float64) {
	s.aggregated = values
}

// SetLineCount records the number of lines of a file, enabling issue line validation.
func (s *SourceCode) SetLineCount(lines int) { s.lineCount = lines }

// LineCount returns the recorded number of lines, zero when unknown.
func (s *SourceCode) LineCount() int { return s.lineCount }

// AddIssue records an issue on the file this entity belongs to.
func (s *SourceCode) AddIssue(issue Issue) error {
	file := s.Ancestor(File)
	if file == nil {
		return fmt.Errorf("%w: %s %s", ErrNoFile, s.kind, s.QualifiedKey())
	}

	if issue.Line < 1 || (file.lineCount > 0 && issue.Line > file.lineCount) {
		return fmt.Errorf("%w: line %d of %s", ErrLineOutOfRange, issue.Line, file.key)
	}

	issue.File = file.QualifiedKey()
	file.issues = append(file.issues, issue)

	return nil
}

// Issues returns the file's issues ordered by line, then rule key, then
// insertion order. Only files own issues; other kinds return nil.
func (s *SourceCode) Issues() []Issue {
	if len(s.issues) == 0 {
		return nil
	}

	out := slices.Clone(s.issues)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}

		return out[i].RuleKey < out[j].RuleKey
	})

	return out
}

// IssuesFor returns the file's issues for one rule, in line order.
func (s *SourceCode) IssuesFor(ruleKey string) []Issue {
	var out []Issue

	for _, issue := range s.Issues() {
		if issue.RuleKey == ruleKey {
			out = append(out, issue)
		}
	}

	return out
}

// IssueCount returns the number of issues on this entity's files, recursively.
func (s *SourceCode) IssueCount() int {
	count := len(s.issues)
	for _, child := range s.children {
		count += child.IssueCount()
	}

	return count
}

// Walk visits the entity and its descendants in post-order: children before parents.
func (s *SourceCode) Walk(fn func(*SourceCode)) {
	for _, child := range s.children {
		child.Walk(fn)
	}

	fn(s)
}

func (s *SourceCode) String() string {
	var buf strings.Builder

	buf.WriteString(s.kind.String())
	buf.WriteByte(' ')
	buf.WriteString(s.QualifiedKey())

	return buf.String()
}
