package entities

// DefaultTypes are the built-in catalog types seeded on init.
// Imports may add more; these are the ones the loaders depend on.
var DefaultTypes = []Type{
	{ID: 3, GroupID: GroupRegion, CategoryID: CategoryCelestial, Name: "Region", Published: true},
	{ID: 4, GroupID: GroupConstellation, CategoryID: CategoryCelestial, Name: "Constellation", Published: true},
	{ID: 5, GroupID: GroupSolarSystem, CategoryID: CategoryCelestial, Name: "Solar System", Published: true},
	{ID: 1529, GroupID: GroupStation, CategoryID: CategoryStation, Name: "Caldari Logistics Station", Published: true},
	{ID: 3796, GroupID: GroupSun, CategoryID: CategoryCelestial, Name: "Sun G5 (Yellow)", Radius: 50000000, Published: true},
	{ID: 3797, GroupID: GroupSun, CategoryID: CategoryCelestial, Name: "Sun K7 (Orange)", Radius: 40000000, Published: true},
	{ID: 3798, GroupID: GroupSun, CategoryID: CategoryCelestial, Name: "Sun B0 (Blue)", Radius: 120000000, Published: true},
	{ID: 3799, GroupID: GroupSun, CategoryID: CategoryCelestial, Name: "Sun F0 (White)", Radius: 65000000, Published: true},
	{ID: 3800, GroupID: GroupSun, CategoryID: CategoryCelestial, Name: "Sun K5 (Red Giant)", Radius: 150000000, Published: true},
	{ID: 3801, GroupID: GroupSun, CategoryID: CategoryCelestial, Name: "Sun M0 (Orange radiant)", Radius: 45000000, Published: true},
	{ID: 3802, GroupID: GroupSun, CategoryID: CategoryCelestial, Name: "Sun A0 (Blue Small)", Radius: 30000000, Published: true},
}

// DefaultTypeIDs returns just the identifiers of default types for quick lookup.
func DefaultTypeIDs() []uint32 {
	ids := make([]uint32, len(DefaultTypes))
	for i, t := range DefaultTypes {
		ids[i] = t.ID
	}
	return ids
}

// IsDefaultType checks if a type identifier is a built-in default.
func IsDefaultType(id uint32) bool {
	for _, t := range DefaultTypes {
		if t.ID == id {
			return true
		}
	}
	return false
}
