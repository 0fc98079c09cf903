package entities

import (
	"fmt"
	"strings"
)

// Kind tags which specialization an Entity carries.
type Kind uint8

const (
	KindItem Kind = iota
	KindSolarSystem
)

func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindSolarSystem:
		return "solarsystem"
	default:
		return fmt.Sprintf("kind#%d", uint8(k))
	}
}

// ParseKind converts a kind name as printed by String back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "item", "":
		return KindItem, nil
	case "solarsystem", "solar_system", "system":
		return KindSolarSystem, nil
	default:
		return 0, fmt.Errorf("unknown kind: %q", s)
	}
}

// Entity is the capability set shared by every loaded item, whatever its kind.
// Entities are immutable once constructed and safe to share between goroutines.
type Entity interface {
	ID() uint32
	Kind() Kind
	Type() *Type
	Data() ItemData
	Contents() []Entity
	ContentsLoaded() bool
}

// Container is implemented by entities that can carry their loaded contents.
// WithContents never modifies the receiver.
type Container interface {
	Entity
	WithContents(contents []Entity) (Entity, error)
}

// Item is the generic entity. Kinds without a specialization load as Item.
type Item struct {
	id             uint32
	typ            *Type
	data           ItemData
	contents       []Entity
	contentsLoaded bool
}

// ValidateItem checks that a generic record and its resolved type belong together.
func ValidateItem(id uint32, typ *Type, data ItemData) error {
	if typ == nil {
		return fmt.Errorf("item %d: type %d: %w", id, data.TypeID, ErrNotFound)
	}
	if data.ItemID != id {
		return &ConsistencyError{ItemID: id, Field: "item_id", Stored: data.ItemID, Resolved: id}
	}
	if typ.ID != data.TypeID {
		return &ConsistencyError{ItemID: id, Field: "type_id", Stored: data.TypeID, Resolved: typ.ID}
	}
	return nil
}

// NewItem builds a generic item. It returns an error instead of an item when
// the inputs disagree.
func NewItem(id uint32, typ *Type, data ItemData) (*Item, error) {
	if err := ValidateItem(id, typ, data); err != nil {
		return nil, err
	}
	return &Item{id: id, typ: typ, data: data}, nil
}

func (i *Item) ID() uint32     { return i.id }
func (i *Item) Kind() Kind     { return KindItem }
func (i *Item) Type() *Type    { return i.typ }
func (i *Item) Data() ItemData { return i.data }

// Contents returns a copy of the loaded contents, nil if they were never loaded.
func (i *Item) Contents() []Entity {
	if !i.contentsLoaded {
		return nil
	}
	out := make([]Entity, len(i.contents))
	copy(out, i.contents)
	return out
}

func (i *Item) ContentsLoaded() bool { return i.contentsLoaded }

// WithContents returns a copy of the item carrying contents.
func (i *Item) WithContents(contents []Entity) (Entity, error) {
	c, err := i.withContents(contents)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (i *Item) withContents(contents []Entity) (Item, error) {
	if err := validateContents(i.id, contents); err != nil {
		return Item{}, err
	}
	c := *i
	c.contents = make([]Entity, len(contents))
	copy(c.contents, contents)
	c.contentsLoaded = true
	return c, nil
}

func validateContents(containerID uint32, contents []Entity) error {
	for _, e := range contents {
		if e == nil {
			return fmt.Errorf("item %d: nil content entity", containerID)
		}
		if e.ID() == containerID {
			return &ConsistencyError{ItemID: containerID, Field: "location_id", Stored: containerID, Resolved: containerID}
		}
		if loc := e.Data().LocationID; loc != containerID {
			return &ConsistencyError{ItemID: e.ID(), Field: "location_id", Stored: loc, Resolved: containerID}
		}
	}
	return nil
}
