package entities

type Item struct{ ID uint32 }

type SolarSystem struct{ Item }

func NewItem(id uint32) (*Item, error) { return &Item{ID: id}, nil }

func NewSolarSystem(id uint32) (*SolarSystem, error) {
	return &SolarSystem{Item: Item{ID: id}}, nil
}

// ParseKind is not a constructor.
func ParseKind(s string) (int, error) { return len(s), nil }
