package factoryonly_test

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	"github.com/ersonp/universe-core/tools/universe-lint/analyzers/factoryonly"
)

func TestAnalyzer(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, factoryonly.Analyzer,
		"example.com/universe/cmd/tool",
		"example.com/universe/internal/domain/services",
	)
}
