package tool

import "example.com/universe/internal/domain/entities"

type other struct{}

func (other) NewItem(id uint32) uint32 { return id }

func bad(id uint32) {
	_, _ = entities.NewItem(id)        // want "entities.NewItem called outside the item factory"
	_, _ = entities.NewSolarSystem(id) // want "entities.NewSolarSystem called outside the item factory"
}

func good(id uint32) {
	_, _ = entities.ParseKind("item")
	_ = other{}.NewItem(id)
}
