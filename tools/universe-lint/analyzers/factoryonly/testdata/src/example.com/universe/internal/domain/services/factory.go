package services

import "example.com/universe/internal/domain/entities"

// The factory may construct entities.
func Load(id uint32) (*entities.SolarSystem, error) {
	if _, err := entities.NewItem(id); err != nil {
		return nil, err
	}
	return entities.NewSolarSystem(id)
}
