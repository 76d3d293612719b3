// Package analyzers assembles the metric visitors run by every scan.
package analyzers

import (
	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers/builder"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers/complexity"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers/counters"
	"github.com/Sumatoshi-tech/erlfang/internal/analyzers/lines"
)

// Metrics returns fresh metric visitors in registration order. The builder
// comes first so the others find the current module and function on the cursor.
func Metrics() []analyze.Visitor {
	return []analyze.Visitor{
		builder.NewVisitor(),
		lines.NewVisitor(),
		complexity.NewVisitor(),
		counters.NewVisitor(),
	}
}
