// Package metrics defines the measures recorded on the source-code index and
// the decorator that rolls them up from functions to the project.
//
// Each metric carries:
//   - Metadata for documentation and reports
//   - An aggregation telling the decorator how child values combine
//   - A formula, for calculated metrics only
package metrics

import (
	"errors"
	"fmt"
)

// Aggregation tells the decorator how a metric rolls up the index tree.
type Aggregation uint8

// Aggregation kinds.
const (
	// Sum adds the entity's own value to the sum of its children's.
	Sum Aggregation = iota
	// Max keeps the largest value found on the entity or below it.
	Max
	// Calculated derives the value from other aggregated metrics of the same entity.
	Calculated
)

func (a Aggregation) String() string {
	switch a {
	case Sum:
		return "sum"
	case Max:
		return "max"
	case Calculated:
		return "calculated"
	default:
		return "unknown"
	}
}

// ErrDuplicateMetric indicates a metric registered twice.
var ErrDuplicateMetric = errors.New("duplicate metric")

// MetricMeta holds the common metadata for a metric.
// Embed this in metric definitions to satisfy metadata methods.
type MetricMeta struct {
	MetricName        string
	MetricDisplayName string
	MetricDescription string
	MetricType        string
}

// Name returns the machine-readable identifier.
func (m MetricMeta) Name() string { return m.MetricName }

// DisplayName returns a human-readable name for UI/reports.
func (m MetricMeta) DisplayName() string { return m.MetricDisplayName }

// Description returns detailed documentation.
func (m MetricMeta) Description() string { return m.MetricDescription }

// Type returns the metric category.
func (m MetricMeta) Type() string { return m.MetricType }

// Formula computes a calculated metric from the aggregated values of one entity.
// The second result is false when the metric does not apply to the entity.
type Formula func(values map[string]float64) (float64, bool)

// Definition describes one metric.
type Definition struct {
	MetricMeta

	Aggregation Aggregation
	Formula     Formula
}

// Registry holds metric definitions in registration order.
type Registry struct {
	order  []Definition
	byName map[string]int
}

// NewRegistry creates a registry holding the given definitions.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{byName: make(map[string]int)}

	var errs []error

	for _, def := range defs {
		err := r.Register(def)
		if err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Register adds a metric definition.
func (r *Registry) Register(def Definition) error {
	if _, exists := r.byName[def.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateMetric, def.Name())
	}

	r.byName[def.Name()] = len(r.order)
	r.order = append(r.order, def)

	return nil
}

// Get retrieves a metric by name.
func (r *Registry) Get(name string) (Definition, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Definition{}, false
	}

	return r.order[i], true
}

// Names returns all registered metric names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))

	for _, def := range r.order {
		names = append(names, def.Name())
	}

	return names
}

// Definitions returns all registered definitions in registration order.
func (r *Registry) Definitions() []Definition {
	return append([]Definition(nil), r.order...)
}
