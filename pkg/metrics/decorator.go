package metrics

import (
	"github.com/Sumatoshi-tech/erlfang/pkg/index"
)

// Decorator aggregates raw metric values bottom-up through the index.
type Decorator struct {
	registry *Registry
}

// NewDecorator creates a decorator for the metrics of the registry. Raw
// values of metrics the registry does not know are summed.
func NewDecorator(registry *Registry) *Decorator {
	return &Decorator{registry: registry}
}

// Decorate computes the aggregated values of root and every entity below it.
// Aggregation always restarts from raw values, so decorating twice yields
// the same result.
func (d *Decorator) Decorate(root *index.SourceCode) {
	results := make(map[*index.SourceCode]map[string]float64)

	root.Walk(func(s *index.SourceCode) {
		values := s.RawMetrics()

		for _, child := range s.Children() {
			d.merge(values, results[child])
		}

		for _, def := range d.registry.order {
			if def.Aggregation != Calculated || def.Formula == nil {
				continue
			}

			if value, ok := def.Formula(values); ok {
				values[def.Name()] = value
			} else {
				delete(values, def.Name())
			}
		}

		results[s] = values
		s.SetAggregated(values)
	})
}

func (d *Decorator) merge(into, child map[string]float64) {
	for name, value := range child {
		def, known := d.registry.Get(name)
		if !known {
			def.Aggregation = Sum
		}

		current, present := into[name]

		switch def.Aggregation {
		case Sum:
			into[name] = current + value
		case Max:
			if !present || value > current {
				into[name] = value
			}
		case Calculated:
			// Recomputed from the merged inputs.
		}
	}
}
