// universe-lint is a custom static analyzer for universe-core conventions.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/universe-core/tools/universe-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
