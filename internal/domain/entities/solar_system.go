package entities

import "fmt"

// SolarSystemData is the specialized record stored for solar systems.
type SolarSystemData struct {
	MinPosition   Position `json:"min_position"`
	MaxPosition   Position `json:"max_position"`
	Luminosity    float64  `json:"luminosity"`
	Border        bool     `json:"border"`
	Fringe        bool     `json:"fringe"`
	Corridor      bool     `json:"corridor"`
	Hub           bool     `json:"hub"`
	International bool     `json:"international"`
	Regional      bool     `json:"regional"`
	Constellation bool     `json:"constellation"`
	Security      float64  `json:"security"`
	FactionID     uint32   `json:"faction_id"`
	Radius        float64  `json:"radius"`
	SunTypeID     uint32   `json:"sun_type_id"`
	SecurityClass string   `json:"security_class"`
}

// SolarSystem is an item of group GroupSolarSystem together with its
// specialized record and the type of its sun.
type SolarSystem struct {
	Item
	sunType *Type
	system  SolarSystemData
}

// ValidateSolarSystem runs every check NewSolarSystem relies on, in order:
// the generic invariants, the group, the sun type presence and the sun type
// cross-record invariant.
func ValidateSolarSystem(id uint32, typ *Type, data ItemData, sunType *Type, system SolarSystemData) error {
	if err := ValidateItem(id, typ, data); err != nil {
		return err
	}
	if typ.GroupID != GroupSolarSystem {
		return fmt.Errorf("item %d: type %q (%d) is %s, want %s: %w",
			id, typ.Name, typ.ID, typ.GroupID, GroupSolarSystem, ErrTypeMismatch)
	}
	if sunType == nil {
		return fmt.Errorf("solar system %d: sun type %d: %w", id, system.SunTypeID, ErrMissingDependency)
	}
	if sunType.ID != system.SunTypeID {
		return &ConsistencyError{ItemID: id, Field: "sun_type_id", Stored: system.SunTypeID, Resolved: sunType.ID}
	}
	return nil
}

// NewSolarSystem builds a solar system from fully resolved inputs. Nothing is
// allocated unless ValidateSolarSystem passes.
func NewSolarSystem(id uint32, typ *Type, data ItemData, sunType *Type, system SolarSystemData) (*SolarSystem, error) {
	if err := ValidateSolarSystem(id, typ, data, sunType, system); err != nil {
		return nil, err
	}
	return &SolarSystem{
		Item:    Item{id: id, typ: typ, data: data},
		sunType: sunType,
		system:  system,
	}, nil
}

func (s *SolarSystem) Kind() Kind { return KindSolarSystem }

// SunType returns the catalog type of the system's star.
func (s *SolarSystem) SunType() *Type { return s.sunType }

// SystemData returns the specialized record exactly as it was fetched.
func (s *SolarSystem) SystemData() SolarSystemData { return s.system }

func (s *SolarSystem) Security() float64     { return s.system.Security }
func (s *SolarSystem) SecurityClass() string { return s.system.SecurityClass }
func (s *SolarSystem) FactionID() uint32     { return s.system.FactionID }
func (s *SolarSystem) Radius() float64       { return s.system.Radius }
func (s *SolarSystem) Luminosity() float64   { return s.system.Luminosity }

// Bounds returns the min and max corners of the system.
func (s *SolarSystem) Bounds() (Position, Position) {
	return s.system.MinPosition, s.system.MaxPosition
}

// WithContents returns a copy of the system carrying contents.
func (s *SolarSystem) WithContents(contents []Entity) (Entity, error) {
	item, err := s.Item.withContents(contents)
	if err != nil {
		return nil, err
	}
	c := *s
	c.Item = item
	return &c, nil
}
