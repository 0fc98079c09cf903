package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses dumps of the form
// {"types": [...], "items": [...], "solar_systems": [...]}.
type JSONParser struct{}

// Parse reads JSON from the reader and returns the parsed dump.
func (p *JSONParser) Parse(r io.Reader) (*Dump, error) {
	var dump Dump

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&dump); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// Line numbers are 1-indexed positions within each array.
	for i := range dump.Types {
		dump.Types[i].LineNum = i + 1
	}
	for i := range dump.Items {
		dump.Items[i].LineNum = i + 1
	}
	for i := range dump.SolarSystems {
		dump.SolarSystems[i].LineNum = i + 1
	}

	return &dump, nil
}
