package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/ersonp/universe-core/internal/domain/entities"
)

// ItemDB is an in-memory implementation of ports.ItemDB.
// Call counters let tests assert which stages a load actually ran.
type ItemDB struct {
	mu sync.Mutex

	Types    map[uint32]*entities.Type
	Items    map[uint32]*entities.ItemData
	Systems  map[uint32]*entities.SolarSystemData
	Batches  []entities.ImportBatch
	Err      error
	ItemErr  error
	TypeErr  error
	Calls    map[string]int
	closed   bool
	ensureCt int
}

// NewItemDB creates a new mock ItemDB.
func NewItemDB() *ItemDB {
	return &ItemDB{
		Types:   make(map[uint32]*entities.Type),
		Items:   make(map[uint32]*entities.ItemData),
		Systems: make(map[uint32]*entities.SolarSystemData),
		Calls:   make(map[string]int),
	}
}

func (m *ItemDB) called(name string) {
	m.mu.Lock()
	m.Calls[name]++
	m.mu.Unlock()
}

// CallCount returns how many times the named method ran.
func (m *ItemDB) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

// ResetCalls clears all call counters.
func (m *ItemDB) ResetCalls() {
	m.mu.Lock()
	m.Calls = make(map[string]int)
	m.mu.Unlock()
}

// EnsureSchema creates the database schema if it doesn't exist.
func (m *ItemDB) EnsureSchema(_ context.Context) error {
	m.mu.Lock()
	m.ensureCt++
	m.mu.Unlock()
	return m.Err
}

// Close closes the database connection.
func (m *ItemDB) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (m *ItemDB) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Type methods.

// SaveType saves or updates a catalog type.
func (m *ItemDB) SaveType(_ context.Context, t *entities.Type) error {
	m.called("SaveType")
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.Types[t.ID] = &cp
	return nil
}

// GetType finds a catalog type by id.
func (m *ItemDB) GetType(_ context.Context, typeID uint32) (*entities.Type, error) {
	m.called("GetType")
	if m.TypeErr != nil {
		return nil, m.TypeErr
	}
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Types[typeID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

// ListTypes lists all catalog types ordered by id.
func (m *ItemDB) ListTypes(_ context.Context) ([]entities.Type, error) {
	m.called("ListTypes")
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]entities.Type, 0, len(m.Types))
	for _, t := range m.Types {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Item methods.

// SaveItem saves or updates a generic item record.
func (m *ItemDB) SaveItem(_ context.Context, data *entities.ItemData) error {
	m.called("SaveItem")
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *data
	m.Items[data.ItemID] = &cp
	return nil
}

// GetItem returns the generic record of an item.
func (m *ItemDB) GetItem(_ context.Context, itemID uint32) (*entities.ItemData, error) {
	m.called("GetItem")
	if m.ItemErr != nil {
		return nil, m.ItemErr
	}
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.Items[itemID]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

// SaveSolarSystem saves or updates the specialized record of a solar system.
func (m *ItemDB) SaveSolarSystem(_ context.Context, itemID uint32, data *entities.SolarSystemData) error {
	m.called("SaveSolarSystem")
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *data
	m.Systems[itemID] = &cp
	return nil
}

// GetSolarSystem returns the specialized record of a solar system.
func (m *ItemDB) GetSolarSystem(_ context.Context, itemID uint32) (*entities.SolarSystemData, error) {
	m.called("GetSolarSystem")
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.Systems[itemID]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

// ListContents returns the items located in locationID ordered by id.
func (m *ItemDB) ListContents(_ context.Context, locationID uint32) ([]entities.ItemData, error) {
	m.called("ListContents")
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []entities.ItemData
	for _, d := range m.Items {
		if d.LocationID == locationID && d.ItemID != 0 {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ItemID < result[j].ItemID
	})
	return result, nil
}

// CountItems returns the number of generic item records.
func (m *ItemDB) CountItems(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Items), nil
}

// LogImport records an import batch.
func (m *ItemDB) LogImport(_ context.Context, batch *entities.ImportBatch) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Batches = append(m.Batches, *batch)
	return nil
}

// EnsureSchemaCalls returns how many times EnsureSchema ran.
func (m *ItemDB) EnsureSchemaCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureCt
}
