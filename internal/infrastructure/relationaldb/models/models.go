// Package models holds the row shapes shared by the SQL item databases and
// their conversions to domain records.
package models

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/ersonp/universe-core/internal/domain/entities"
)

// ErrOutOfRange is returned when a stored id or count does not fit its
// domain field. Such a row is corrupt and is never narrowed silently.
var ErrOutOfRange = errors.New("stored value out of range")

type column struct {
	name  string
	value int64
}

func checkRange(cols ...column) error {
	for _, c := range cols {
		if c.value < 0 || c.value > math.MaxUint32 {
			return fmt.Errorf("%s %d: %w", c.name, c.value, ErrOutOfRange)
		}
	}
	return nil
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Column lists, in the order the Scan functions expect.
const (
	TypeColumns = `type_id, group_id, category_id, type_name, description, radius, mass, volume, published`

	ItemColumns = `item_id, item_name, type_id, owner_id, location_id, flag, contraband, singleton, quantity, x, y, z, custom_info`

	SolarSystemColumns = `solar_system_id, x_min, y_min, z_min, x_max, y_max, z_max, luminosity,
		border, fringe, corridor, hub, international, regional, constellation,
		security, faction_id, radius, sun_type_id, security_class`
)

// TypeModel is a row of inv_types.
type TypeModel struct {
	TypeID      int64
	GroupID     int64
	CategoryID  int64
	Name        string
	Description sql.NullString
	Radius      float64
	Mass        float64
	Volume      float64
	Published   bool
}

// ToTypeModel converts a catalog type to its row.
func ToTypeModel(t *entities.Type) *TypeModel {
	return &TypeModel{
		TypeID:      int64(t.ID),
		GroupID:     int64(t.GroupID),
		CategoryID:  int64(t.CategoryID),
		Name:        t.Name,
		Description: sql.NullString{String: t.Description, Valid: t.Description != ""},
		Radius:      t.Radius,
		Mass:        t.Mass,
		Volume:      t.Volume,
		Published:   t.Published,
	}
}

// Args returns the row values in TypeColumns order.
func (m *TypeModel) Args() []any {
	return []any{m.TypeID, m.GroupID, m.CategoryID, m.Name, m.Description, m.Radius, m.Mass, m.Volume, m.Published}
}

// ToDomain converts the row to a catalog type.
func (m *TypeModel) ToDomain() *entities.Type {
	return &entities.Type{
		ID:          uint32(m.TypeID),
		GroupID:     entities.Group(m.GroupID),
		CategoryID:  entities.Category(m.CategoryID),
		Name:        m.Name,
		Description: m.Description.String,
		Radius:      m.Radius,
		Mass:        m.Mass,
		Volume:      m.Volume,
		Published:   m.Published,
	}
}

// ScanType reads one inv_types row.
func ScanType(s Scanner) (*TypeModel, error) {
	var m TypeModel
	err := s.Scan(&m.TypeID, &m.GroupID, &m.CategoryID, &m.Name, &m.Description,
		&m.Radius, &m.Mass, &m.Volume, &m.Published)
	if err != nil {
		return nil, err
	}
	if err := checkRange(
		column{"type_id", m.TypeID},
		column{"group_id", m.GroupID},
		column{"category_id", m.CategoryID},
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// ItemModel is a row of entity.
type ItemModel struct {
	ItemID     int64
	Name       string
	TypeID     int64
	OwnerID    int64
	LocationID int64
	Flag       int64
	Contraband bool
	Singleton  bool
	Quantity   int64
	X, Y, Z    float64
	CustomInfo sql.NullString
}

// ToItemModel converts a generic record to its row.
func ToItemModel(d *entities.ItemData) *ItemModel {
	return &ItemModel{
		ItemID:     int64(d.ItemID),
		Name:       d.Name,
		TypeID:     int64(d.TypeID),
		OwnerID:    int64(d.OwnerID),
		LocationID: int64(d.LocationID),
		Flag:       int64(d.Flag),
		Contraband: d.Contraband,
		Singleton:  d.Singleton,
		Quantity:   int64(d.Quantity),
		X:          d.Position.X,
		Y:          d.Position.Y,
		Z:          d.Position.Z,
		CustomInfo: sql.NullString{String: d.CustomInfo, Valid: d.CustomInfo != ""},
	}
}

// Args returns the row values in ItemColumns order.
func (m *ItemModel) Args() []any {
	return []any{m.ItemID, m.Name, m.TypeID, m.OwnerID, m.LocationID, m.Flag,
		m.Contraband, m.Singleton, m.Quantity, m.X, m.Y, m.Z, m.CustomInfo}
}

// ToDomain converts the row to a generic record.
func (m *ItemModel) ToDomain() *entities.ItemData {
	return &entities.ItemData{
		ItemID:     uint32(m.ItemID),
		TypeID:     uint32(m.TypeID),
		Name:       m.Name,
		OwnerID:    uint32(m.OwnerID),
		LocationID: uint32(m.LocationID),
		Flag:       uint32(m.Flag),
		Contraband: m.Contraband,
		Singleton:  m.Singleton,
		Quantity:   uint32(m.Quantity),
		Position:   entities.Position{X: m.X, Y: m.Y, Z: m.Z},
		CustomInfo: m.CustomInfo.String,
	}
}

// ScanItem reads one entity row.
func ScanItem(s Scanner) (*ItemModel, error) {
	var m ItemModel
	err := s.Scan(&m.ItemID, &m.Name, &m.TypeID, &m.OwnerID, &m.LocationID, &m.Flag,
		&m.Contraband, &m.Singleton, &m.Quantity, &m.X, &m.Y, &m.Z, &m.CustomInfo)
	if err != nil {
		return nil, err
	}
	if err := checkRange(
		column{"item_id", m.ItemID},
		column{"type_id", m.TypeID},
		column{"owner_id", m.OwnerID},
		column{"location_id", m.LocationID},
		column{"flag", m.Flag},
		column{"quantity", m.Quantity},
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// SolarSystemModel is a row of map_solar_systems.
type SolarSystemModel struct {
	SolarSystemID    int64
	XMin, YMin, ZMin float64
	XMax, YMax, ZMax float64
	Luminosity       float64
	Border           bool
	Fringe           bool
	Corridor         bool
	Hub              bool
	International    bool
	Regional         bool
	Constellation    bool
	Security         float64
	FactionID        int64
	Radius           float64
	SunTypeID        int64
	SecurityClass    string
}

// ToSolarSystemModel converts a specialized record to its row.
func ToSolarSystemModel(itemID uint32, d *entities.SolarSystemData) *SolarSystemModel {
	return &SolarSystemModel{
		SolarSystemID: int64(itemID),
		XMin:          d.MinPosition.X,
		YMin:          d.MinPosition.Y,
		ZMin:          d.MinPosition.Z,
		XMax:          d.MaxPosition.X,
		YMax:          d.MaxPosition.Y,
		ZMax:          d.MaxPosition.Z,
		Luminosity:    d.Luminosity,
		Border:        d.Border,
		Fringe:        d.Fringe,
		Corridor:      d.Corridor,
		Hub:           d.Hub,
		International: d.International,
		Regional:      d.Regional,
		Constellation: d.Constellation,
		Security:      d.Security,
		FactionID:     int64(d.FactionID),
		Radius:        d.Radius,
		SunTypeID:     int64(d.SunTypeID),
		SecurityClass: d.SecurityClass,
	}
}

// Args returns the row values in SolarSystemColumns order.
func (m *SolarSystemModel) Args() []any {
	return []any{m.SolarSystemID, m.XMin, m.YMin, m.ZMin, m.XMax, m.YMax, m.ZMax, m.Luminosity,
		m.Border, m.Fringe, m.Corridor, m.Hub, m.International, m.Regional, m.Constellation,
		m.Security, m.FactionID, m.Radius, m.SunTypeID, m.SecurityClass}
}

// ToDomain converts the row to a specialized record.
func (m *SolarSystemModel) ToDomain() *entities.SolarSystemData {
	return &entities.SolarSystemData{
		MinPosition:   entities.Position{X: m.XMin, Y: m.YMin, Z: m.ZMin},
		MaxPosition:   entities.Position{X: m.XMax, Y: m.YMax, Z: m.ZMax},
		Luminosity:    m.Luminosity,
		Border:        m.Border,
		Fringe:        m.Fringe,
		Corridor:      m.Corridor,
		Hub:           m.Hub,
		International: m.International,
		Regional:      m.Regional,
		Constellation: m.Constellation,
		Security:      m.Security,
		FactionID:     uint32(m.FactionID),
		Radius:        m.Radius,
		SunTypeID:     uint32(m.SunTypeID),
		SecurityClass: m.SecurityClass,
	}
}

// ScanSolarSystem reads one map_solar_systems row.
func ScanSolarSystem(s Scanner) (*SolarSystemModel, error) {
	var m SolarSystemModel
	err := s.Scan(&m.SolarSystemID, &m.XMin, &m.YMin, &m.ZMin, &m.XMax, &m.YMax, &m.ZMax, &m.Luminosity,
		&m.Border, &m.Fringe, &m.Corridor, &m.Hub, &m.International, &m.Regional, &m.Constellation,
		&m.Security, &m.FactionID, &m.Radius, &m.SunTypeID, &m.SecurityClass)
	if err != nil {
		return nil, err
	}
	if err := checkRange(
		column{"solar_system_id", m.SolarSystemID},
		column{"faction_id", m.FactionID},
		column{"sun_type_id", m.SunTypeID},
	); err != nil {
		return nil, err
	}
	return &m, nil
}
