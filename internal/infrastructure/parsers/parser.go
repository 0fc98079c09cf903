// Package parsers provides parsers for importing universe dumps from various formats.
package parsers

import (
	"io"
	"path/filepath"
	"strings"
)

// RawType is a catalog type parsed from an external source before validation.
type RawType struct {
	TypeID      uint32  `json:"type_id"`
	GroupID     uint32  `json:"group_id"`
	CategoryID  uint32  `json:"category_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
	Mass        float64 `json:"mass,omitempty"`
	Volume      float64 `json:"volume,omitempty"`
	Published   bool    `json:"published,omitempty"`
	LineNum     int     `json:"-"` // Line number in source file (set by parser)
}

// RawItem is a generic item record parsed before validation.
type RawItem struct {
	ItemID     uint32  `json:"item_id"`
	TypeID     uint32  `json:"type_id"`
	Name       string  `json:"name"`
	OwnerID    uint32  `json:"owner_id,omitempty"`
	LocationID uint32  `json:"location_id,omitempty"`
	Flag       uint32  `json:"flag,omitempty"`
	Contraband bool    `json:"contraband,omitempty"`
	Singleton  bool    `json:"singleton,omitempty"`
	Quantity   uint32  `json:"quantity,omitempty"`
	X          float64 `json:"x,omitempty"`
	Y          float64 `json:"y,omitempty"`
	Z          float64 `json:"z,omitempty"`
	CustomInfo string  `json:"custom_info,omitempty"`
	LineNum    int     `json:"-"`
}

// RawSolarSystem is a solar system record parsed before validation.
type RawSolarSystem struct {
	SolarSystemID uint32  `json:"solar_system_id"`
	XMin          float64 `json:"x_min"`
	YMin          float64 `json:"y_min"`
	ZMin          float64 `json:"z_min"`
	XMax          float64 `json:"x_max"`
	YMax          float64 `json:"y_max"`
	ZMax          float64 `json:"z_max"`
	Luminosity    float64 `json:"luminosity,omitempty"`
	Border        bool    `json:"border,omitempty"`
	Fringe        bool    `json:"fringe,omitempty"`
	Corridor      bool    `json:"corridor,omitempty"`
	Hub           bool    `json:"hub,omitempty"`
	International bool    `json:"international,omitempty"`
	Regional      bool    `json:"regional,omitempty"`
	Constellation bool    `json:"constellation,omitempty"`
	Security      float64 `json:"security"`
	FactionID     uint32  `json:"faction_id,omitempty"`
	Radius        float64 `json:"radius,omitempty"`
	SunTypeID     uint32  `json:"sun_type_id"`
	SecurityClass string  `json:"security_class,omitempty"`
	LineNum       int     `json:"-"`
}

// Dump is the parsed content of one import file.
type Dump struct {
	Types        []RawType        `json:"types"`
	Items        []RawItem        `json:"items"`
	SolarSystems []RawSolarSystem `json:"solar_systems"`
}

// Len returns the total number of records in the dump.
func (d *Dump) Len() int {
	return len(d.Types) + len(d.Items) + len(d.SolarSystems)
}

// Parser defines the interface for parsing universe dumps.
type Parser interface {
	Parse(r io.Reader) (*Dump, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	return ForFormat(strings.TrimPrefix(filepath.Ext(filename), "."))
}
