// Package analyzers provides all custom static analyzers for universe-core.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/universe-core/tools/universe-lint/analyzers/factoryonly"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		factoryonly.Analyzer,
	}
}
