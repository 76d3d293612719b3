// Package checks implements the Erlang coding rules. Each check is an
// analyze.Visitor that reports issues through the visitor context.
package checks

import (
	"errors"
	"fmt"
	pathpkg "path"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
)

// Sentinel errors.
var (
	// ErrUnknownCheck is returned when a rule key or pattern matches no check.
	ErrUnknownCheck = errors.New("unknown check")
	// ErrDuplicateCheck is returned when a registry receives a rule key twice.
	ErrDuplicateCheck = errors.New("duplicate check")
	// ErrInvalidParam is returned for a parameter value of the wrong type or range.
	ErrInvalidParam = errors.New("invalid check parameter")
	// ErrInvalidGlob is returned when a check pattern is malformed.
	ErrInvalidGlob = errors.New("invalid check glob")
)

// Severity ranks issues in reports.
type Severity string

// Severities.
const (
	SeverityMajor Severity = "major"
	SeverityMinor Severity = "minor"
	SeverityInfo  Severity = "info"
)

// Param describes one configurable parameter of a check.
type Param struct {
	Name        string
	Description string
	Default     any
}

// Params holds configured parameter values by name.
type Params map[string]any

// Int returns the integer value of name, or def when unset. Negative values are rejected.
func (p Params) Int(name string, def int) (int, error) {
	raw, ok := p[name]
	if !ok || raw == nil {
		return def, nil
	}

	value, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidParam, name, err)
	}

	if value < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalidParam, name, value)
	}

	return value, nil
}

// Regexp returns the compiled expression of name, or of def when unset.
func (p Params) Regexp(name, def string) (*regexp.Regexp, error) {
	expr := def

	if raw, ok := p[name]; ok && raw != nil {
		s, err := cast.ToStringE(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidParam, name, err)
		}

		expr = s
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidParam, name, err)
	}

	return re, nil
}

// Descriptor contains stable check metadata.
type Descriptor struct {
	Key         string
	Description string
	Severity    Severity
	Params      []Param
}

// Factory creates a configured check.
type Factory func(params Params) (analyze.Visitor, error)

// Definition pairs a descriptor with its factory.
type Definition struct {
	Descriptor
	New Factory
}

// Registry stores check definitions with deterministic ordering.
type Registry struct {
	ordered []Definition
	index   map[string]int
}

// NewRegistry creates a registry from check definitions.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(defs))}

	for _, def := range defs {
		if _, exists := r.index[def.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCheck, def.Key)
		}

		r.index[def.Key] = len(r.ordered)
		r.ordered = append(r.ordered, def)
	}

	return r, nil
}

// Default returns a registry of every built-in check.
func Default() *Registry {
	r, err := NewRegistry(builtins()...)
	if err != nil {
		panic(err)
	}

	return r
}

// All returns all descriptors in stable order.
func (r *Registry) All() []Descriptor {
	descriptors := make([]Descriptor, 0, len(r.ordered))
	for _, def := range r.ordered {
		descriptors = append(descriptors, def.Descriptor)
	}

	return descriptors
}

// Descriptor returns check metadata for the given rule key.
func (r *Registry) Descriptor(key string) (Descriptor, bool) {
	i, ok := r.index[key]
	if !ok {
		return Descriptor{}, false
	}

	return r.ordered[i].Descriptor, true
}

// SelectedKeys returns the rule keys for the given patterns, or all keys if none specified.
func (r *Registry) SelectedKeys(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return r.allKeys(), nil
	}

	selected := make([]string, 0, len(r.ordered))
	seen := make(map[string]struct{}, len(r.ordered))

	for _, raw := range patterns {
		keys, err := r.resolvePattern(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}

		for _, key := range keys {
			if _, exists := seen[key]; exists {
				continue
			}

			seen[key] = struct{}{}
			selected = append(selected, key)
		}
	}

	return selected, nil
}

// Build creates the checks for keys, applying params[key] to each. Params
// for a key that is not a registered check are rejected.
func (r *Registry) Build(keys []string, params map[string]Params) ([]analyze.Visitor, error) {
	unknown := make([]string, 0)

	for key := range params {
		if _, ok := r.index[key]; !ok {
			unknown = append(unknown, key)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)

		return nil, fmt.Errorf("%w: %s", ErrUnknownCheck, strings.Join(unknown, ", "))
	}

	visitors := make([]analyze.Visitor, 0, len(keys))

	var errs []error

	for _, key := range keys {
		i, ok := r.index[key]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownCheck, key))

			continue
		}

		v, err := r.ordered[i].New(params[key])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))

			continue
		}

		visitors = append(visitors, v)
	}

	err := errors.Join(errs...)
	if err != nil {
		return nil, err
	}

	return visitors, nil
}

func (r *Registry) resolvePattern(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrUnknownCheck)
	}

	if !strings.ContainsAny(pattern, "*?[") {
		if _, exists := r.index[pattern]; !exists {
			return nil, fmt.Errorf("%w: %s%s", ErrUnknownCheck, pattern, r.Hint(pattern))
		}

		return []string{pattern}, nil
	}

	matched := make([]string, 0, len(r.ordered))

	for _, def := range r.ordered {
		isMatch, err := pathpkg.Match(pattern, def.Key)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidGlob, pattern, err)
		}

		if isMatch {
			matched = append(matched, def.Key)
		}
	}

	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCheck, pattern)
	}

	return matched, nil
}

func (r *Registry) allKeys() []string {
	keys := make([]string, 0, len(r.ordered))
	for _, def := range r.ordered {
		keys = append(keys, def.Key)
	}

	return keys
}
