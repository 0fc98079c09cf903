package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// CSVParser parses one record kind per file. The header selects the kind:
// a solar_system_id column means solar systems, item_id means items, and
// type_id with group_id means catalog types.
type CSVParser struct{}

type csvKind int

const (
	csvTypes csvKind = iota
	csvItems
	csvSolarSystems
)

// Parse reads CSV from the reader and returns the parsed dump.
func (p *CSVParser) Parse(r io.Reader) (*Dump, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	colIndex, kind, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex, kind)
}

// readHeader reads the header row and decides which record kind follows.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, csvKind, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var kind csvKind
	var required []string
	switch {
	case has(colIndex, "solar_system_id"):
		kind = csvSolarSystems
		required = []string{"solar_system_id", "sun_type_id", "security"}
	case has(colIndex, "item_id"):
		kind = csvItems
		required = []string{"item_id", "type_id"}
	case has(colIndex, "type_id") && has(colIndex, "group_id"):
		kind = csvTypes
		required = []string{"type_id", "group_id", "name"}
	default:
		return nil, 0, fmt.Errorf("unrecognized CSV header: need solar_system_id, item_id, or type_id and group_id")
	}

	for _, col := range required {
		if !has(colIndex, col) {
			return nil, 0, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, kind, nil
}

// readRecords reads all data rows into the dump.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int, kind csvKind) (*Dump, error) {
	dump := &Dump{}
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		row := csvRow{record: record, colIndex: colIndex, lineNum: lineNum}
		switch kind {
		case csvTypes:
			dump.Types = append(dump.Types, row.toType())
		case csvItems:
			dump.Items = append(dump.Items, row.toItem())
		case csvSolarSystems:
			dump.SolarSystems = append(dump.SolarSystems, row.toSolarSystem())
		}
		if row.err != nil {
			return nil, row.err
		}
	}

	return dump, nil
}

// csvRow converts columns of one record, keeping the first conversion error.
type csvRow struct {
	record   []string
	colIndex map[string]int
	lineNum  int
	err      error
}

func (r *csvRow) str(col string) string {
	return getColumn(r.record, r.colIndex, col)
}

func (r *csvRow) uintCol(col string) uint32 {
	s := r.str(col)
	if s == "" || r.err != nil {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		r.err = fmt.Errorf("line %d: invalid %s value %q: %w", r.lineNum, col, s, err)
	}
	return uint32(v)
}

func (r *csvRow) floatCol(col string) float64 {
	s := r.str(col)
	if s == "" || r.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.err = fmt.Errorf("line %d: invalid %s value %q: %w", r.lineNum, col, s, err)
	}
	return v
}

func (r *csvRow) boolCol(col string) bool {
	s := r.str(col)
	if s == "" || r.err != nil {
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		r.err = fmt.Errorf("line %d: invalid %s value %q: %w", r.lineNum, col, s, err)
	}
	return v
}

func (r *csvRow) toType() RawType {
	return RawType{
		TypeID:      r.uintCol("type_id"),
		GroupID:     r.uintCol("group_id"),
		CategoryID:  r.uintCol("category_id"),
		Name:        r.str("name"),
		Description: r.str("description"),
		Radius:      r.floatCol("radius"),
		Mass:        r.floatCol("mass"),
		Volume:      r.floatCol("volume"),
		Published:   r.boolCol("published"),
		LineNum:     r.lineNum,
	}
}

func (r *csvRow) toItem() RawItem {
	return RawItem{
		ItemID:     r.uintCol("item_id"),
		TypeID:     r.uintCol("type_id"),
		Name:       r.str("name"),
		OwnerID:    r.uintCol("owner_id"),
		LocationID: r.uintCol("location_id"),
		Flag:       r.uintCol("flag"),
		Contraband: r.boolCol("contraband"),
		Singleton:  r.boolCol("singleton"),
		Quantity:   r.uintCol("quantity"),
		X:          r.floatCol("x"),
		Y:          r.floatCol("y"),
		Z:          r.floatCol("z"),
		CustomInfo: r.str("custom_info"),
		LineNum:    r.lineNum,
	}
}

func (r *csvRow) toSolarSystem() RawSolarSystem {
	return RawSolarSystem{
		SolarSystemID: r.uintCol("solar_system_id"),
		XMin:          r.floatCol("x_min"),
		YMin:          r.floatCol("y_min"),
		ZMin:          r.floatCol("z_min"),
		XMax:          r.floatCol("x_max"),
		YMax:          r.floatCol("y_max"),
		ZMax:          r.floatCol("z_max"),
		Luminosity:    r.floatCol("luminosity"),
		Border:        r.boolCol("border"),
		Fringe:        r.boolCol("fringe"),
		Corridor:      r.boolCol("corridor"),
		Hub:           r.boolCol("hub"),
		International: r.boolCol("international"),
		Regional:      r.boolCol("regional"),
		Constellation: r.boolCol("constellation"),
		Security:      r.floatCol("security"),
		FactionID:     r.uintCol("faction_id"),
		Radius:        r.floatCol("radius"),
		SunTypeID:     r.uintCol("sun_type_id"),
		SecurityClass: r.str("security_class"),
		LineNum:       r.lineNum,
	}
}

func has(colIndex map[string]int, col string) bool {
	_, ok := colIndex[col]
	return ok
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
