// Package entities contains core domain data structures.
package entities

import "fmt"

// Group classifies types into kinds ("this identifier must be a solar system").
type Group uint32

// Known groups. Values mirror the static universe data the store is loaded from.
const (
	GroupRegion        Group = 3
	GroupConstellation Group = 4
	GroupSolarSystem   Group = 5
	GroupSun           Group = 6
	GroupPlanet        Group = 7
	GroupMoon          Group = 8
	GroupAsteroidBelt  Group = 9
	GroupStargate      Group = 10
	GroupStation       Group = 15
)

var groupNames = map[Group]string{
	GroupRegion:        "Region",
	GroupConstellation: "Constellation",
	GroupSolarSystem:   "Solar System",
	GroupSun:           "Sun",
	GroupPlanet:        "Planet",
	GroupMoon:          "Moon",
	GroupAsteroidBelt:  "Asteroid Belt",
	GroupStargate:      "Stargate",
	GroupStation:       "Station",
}

func (g Group) String() string {
	if name, ok := groupNames[g]; ok {
		return name
	}
	return fmt.Sprintf("group#%d", uint32(g))
}

// Category is the coarse classification above Group.
type Category uint32

const (
	CategorySystem    Category = 0
	CategoryCelestial Category = 2
	CategoryStation   Category = 3
)

// Type is immutable catalog metadata shared by every item that references it.
// Entities hold a pointer to the catalog's Type and must treat it as read-only.
type Type struct {
	ID          uint32   `json:"type_id"`
	GroupID     Group    `json:"group_id"`
	CategoryID  Category `json:"category_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Radius      float64  `json:"radius,omitempty"`
	Mass        float64  `json:"mass,omitempty"`
	Volume      float64  `json:"volume,omitempty"`
	Published   bool     `json:"published"`
}
