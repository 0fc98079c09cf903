package handlers

import (
	"context"

	"github.com/ersonp/universe-core/internal/domain/entities"
	"github.com/ersonp/universe-core/internal/domain/services"
)

// ItemHandler loads items through the factory and renders them for output.
type ItemHandler struct {
	factory *services.ItemFactory
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(factory *services.ItemFactory) *ItemHandler {
	return &ItemHandler{
		factory: factory,
	}
}

// LoadRequest selects what to load.
type LoadRequest struct {
	ID      uint32
	Kind    entities.Kind // KindItem dispatches on the item's group
	Recurse bool
}

// ItemView is the output shape of a loaded entity.
type ItemView struct {
	ID         uint32            `json:"item_id"`
	Kind       string            `json:"kind"`
	TypeID     uint32            `json:"type_id"`
	TypeName   string            `json:"type_name"`
	Group      string            `json:"group"`
	Name       string            `json:"name,omitempty"`
	OwnerID    uint32            `json:"owner_id,omitempty"`
	LocationID uint32            `json:"location_id,omitempty"`
	Quantity   uint32            `json:"quantity,omitempty"`
	Position   entities.Position `json:"position"`
	System     *SystemView       `json:"solar_system,omitempty"`
	Contents   []*ItemView       `json:"contents,omitempty"`
}

// SystemView holds the solar system fields of an ItemView.
type SystemView struct {
	Security      float64           `json:"security"`
	SecurityClass string            `json:"security_class,omitempty"`
	FactionID     uint32            `json:"faction_id,omitempty"`
	Radius        float64           `json:"radius"`
	Luminosity    float64           `json:"luminosity"`
	SunTypeID     uint32            `json:"sun_type_id"`
	SunTypeName   string            `json:"sun_type_name"`
	Min           entities.Position `json:"min"`
	Max           entities.Position `json:"max"`
	Flags         []string          `json:"flags,omitempty"`
}

// HandleLoad loads one item and converts it, with its contents when requested.
func (h *ItemHandler) HandleLoad(ctx context.Context, req LoadRequest) (*ItemView, error) {
	opts := services.LoadOptions{Recurse: req.Recurse}

	var e entities.Entity
	var err error
	switch req.Kind {
	case entities.KindSolarSystem:
		var s *entities.SolarSystem
		s, err = h.factory.LoadSolarSystem(ctx, req.ID, opts)
		if s != nil {
			e = s
		}
	default:
		e, err = h.factory.LoadItem(ctx, req.ID, opts)
	}
	if err != nil {
		return nil, err
	}
	return NewItemView(e), nil
}

// HandleRelease drops the live object of id, if any.
func (h *ItemHandler) HandleRelease(id uint32) bool {
	return h.factory.Release(id)
}

// NewItemView converts e and its loaded contents.
func NewItemView(e entities.Entity) *ItemView {
	data := e.Data()
	typ := e.Type()
	v := &ItemView{
		ID:         e.ID(),
		Kind:       e.Kind().String(),
		TypeID:     typ.ID,
		TypeName:   typ.Name,
		Group:      typ.GroupID.String(),
		Name:       data.Name,
		OwnerID:    data.OwnerID,
		LocationID: data.LocationID,
		Quantity:   data.Quantity,
		Position:   data.Position,
	}

	if s, ok := e.(*entities.SolarSystem); ok {
		v.System = newSystemView(s)
	}

	if e.ContentsLoaded() {
		contents := e.Contents()
		v.Contents = make([]*ItemView, 0, len(contents))
		for _, c := range contents {
			v.Contents = append(v.Contents, NewItemView(c))
		}
	}
	return v
}

func newSystemView(s *entities.SolarSystem) *SystemView {
	minPos, maxPos := s.Bounds()
	return &SystemView{
		Security:      s.Security(),
		SecurityClass: s.SecurityClass(),
		FactionID:     s.FactionID(),
		Radius:        s.Radius(),
		Luminosity:    s.Luminosity(),
		SunTypeID:     s.SunType().ID,
		SunTypeName:   s.SunType().Name,
		Min:           minPos,
		Max:           maxPos,
		Flags:         systemFlags(s.SystemData()),
	}
}

func systemFlags(d entities.SolarSystemData) []string {
	var flags []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"border", d.Border},
		{"fringe", d.Fringe},
		{"corridor", d.Corridor},
		{"hub", d.Hub},
		{"international", d.International},
		{"regional", d.Regional},
		{"constellation", d.Constellation},
	} {
		if f.set {
			flags = append(flags, f.name)
		}
	}
	return flags
}
