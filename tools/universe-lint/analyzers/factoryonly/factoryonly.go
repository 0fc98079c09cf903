// Package factoryonly reports entity construction outside the item factory.
package factoryonly

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports calls to entity constructors made outside the packages
// allowed to build entities.
var Analyzer = &analysis.Analyzer{
	Name:     "factoryonly",
	Doc:      "reports entity constructors called outside the item factory",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

const entitiesSuffix = "/internal/domain/entities"

// allowedSuffixes are the packages that may construct entities.
var allowedSuffixes = []string{
	entitiesSuffix,
	"/internal/domain/services",
}

// constructors are the entities functions that return a built entity.
var constructors = map[string]bool{
	"NewItem":        true,
	"NewSolarSystem": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, suffix := range allowedSuffixes {
		if strings.HasSuffix(pass.Pkg.Path(), suffix) {
			return nil, nil
		}
	}

	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)

		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || !constructors[sel.Sel.Name] {
			return
		}

		if strings.HasSuffix(pass.Fset.Position(call.Pos()).Filename, "_test.go") {
			return
		}

		fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
		if !ok || fn.Pkg() == nil || !strings.HasSuffix(fn.Pkg().Path(), entitiesSuffix) {
			return
		}

		pass.Reportf(call.Pos(),
			"entities.%s called outside the item factory - load through services.ItemFactory",
			sel.Sel.Name)
	})

	return nil, nil
}
