package entities

// Position is a point in space, in meters.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ItemData is the generic persisted record every item has, regardless of kind.
type ItemData struct {
	ItemID     uint32   `json:"item_id"`
	TypeID     uint32   `json:"type_id"`
	Name       string   `json:"name"`
	OwnerID    uint32   `json:"owner_id"`
	LocationID uint32   `json:"location_id"`
	Flag       uint32   `json:"flag"`
	Contraband bool     `json:"contraband"`
	Singleton  bool     `json:"singleton"`
	Quantity   uint32   `json:"quantity"`
	Position   Position `json:"position"`
	CustomInfo string   `json:"custom_info,omitempty"`
}
