package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solarSystemType() *Type {
	return &Type{ID: 5, GroupID: GroupSolarSystem, Name: "Solar System"}
}

func jitaData() ItemData {
	return ItemData{ItemID: 30000142, TypeID: 5, Name: "Jita", LocationID: 20000020}
}

func jitaSystem() SolarSystemData {
	return SolarSystemData{
		MinPosition:   Position{X: -1e12, Y: -1e11, Z: -1e12},
		MaxPosition:   Position{X: 1e12, Y: 1e11, Z: 1e12},
		Luminosity:    0.01575,
		Hub:           true,
		Regional:      true,
		Security:      0.9,
		FactionID:     500001,
		Radius:        1.1e12,
		SunTypeID:     3796,
		SecurityClass: "B",
	}
}

func TestNewItem(t *testing.T) {
	station := &Type{ID: 1529, GroupID: GroupStation, Name: "Caldari Logistics Station"}

	tests := []struct {
		name    string
		id      uint32
		typ     *Type
		data    ItemData
		field   string
		wantErr error
	}{
		{
			name: "valid item",
			id:   60003760,
			typ:  station,
			data: ItemData{ItemID: 60003760, TypeID: 1529},
		},
		{
			name:    "nil type",
			id:      60003760,
			data:    ItemData{ItemID: 60003760, TypeID: 1529},
			wantErr: ErrNotFound,
		},
		{
			name:    "item id disagrees",
			id:      60003760,
			typ:     station,
			data:    ItemData{ItemID: 1, TypeID: 1529},
			field:   "item_id",
			wantErr: ErrConsistency,
		},
		{
			name:    "type id disagrees",
			id:      60003760,
			typ:     station,
			data:    ItemData{ItemID: 60003760, TypeID: 5},
			field:   "type_id",
			wantErr: ErrConsistency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewItem(tt.id, tt.typ, tt.data)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, item)
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.field != "" {
					var ce *ConsistencyError
					require.ErrorAs(t, err, &ce)
					assert.Equal(t, tt.field, ce.Field)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, item.ID())
			assert.Equal(t, KindItem, item.Kind())
			assert.Same(t, tt.typ, item.Type())
			assert.Equal(t, tt.data, item.Data())
			assert.False(t, item.ContentsLoaded())
			assert.Nil(t, item.Contents())
		})
	}
}

func TestNewSolarSystem(t *testing.T) {
	sun := &Type{ID: 3796, GroupID: GroupSun, Name: "Sun G5 (Yellow)"}

	t.Run("fields equal the fetched records", func(t *testing.T) {
		sys, err := NewSolarSystem(30000142, solarSystemType(), jitaData(), sun, jitaSystem())
		require.NoError(t, err)
		assert.Equal(t, KindSolarSystem, sys.Kind())
		assert.Equal(t, jitaData(), sys.Data())
		assert.Equal(t, jitaSystem(), sys.SystemData())
		assert.Same(t, sun, sys.SunType())
		assert.Equal(t, sys.SystemData().SunTypeID, sys.SunType().ID)
		assert.InDelta(t, 0.9, sys.Security(), 1e-9)
		assert.Equal(t, "B", sys.SecurityClass())
	})

	t.Run("mismatched sun type is a consistency violation", func(t *testing.T) {
		wrongSun := &Type{ID: 3797, GroupID: GroupSun}
		sys, err := NewSolarSystem(30000142, solarSystemType(), jitaData(), wrongSun, jitaSystem())
		require.Error(t, err)
		assert.Nil(t, sys)
		assert.ErrorIs(t, err, ErrConsistency)
		assert.NotErrorIs(t, err, ErrNotFound)

		var ce *ConsistencyError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "sun_type_id", ce.Field)
		assert.Equal(t, uint32(3796), ce.Stored)
		assert.Equal(t, uint32(3797), ce.Resolved)
	})

	t.Run("missing sun type", func(t *testing.T) {
		_, err := NewSolarSystem(30000142, solarSystemType(), jitaData(), nil, jitaSystem())
		assert.ErrorIs(t, err, ErrMissingDependency)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wrong group", func(t *testing.T) {
		station := &Type{ID: 5, GroupID: GroupStation, Name: "Station"}
		_, err := NewSolarSystem(30000142, station, jitaData(), sun, jitaSystem())
		assert.ErrorIs(t, err, ErrTypeMismatch)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "Station")
	})
}

func TestWithContents(t *testing.T) {
	sun := &Type{ID: 3796, GroupID: GroupSun}
	sys, err := NewSolarSystem(30000142, solarSystemType(), jitaData(), sun, jitaSystem())
	require.NoError(t, err)

	station := &Type{ID: 1529, GroupID: GroupStation}
	child, err := NewItem(60003760, station, ItemData{ItemID: 60003760, TypeID: 1529, LocationID: 30000142})
	require.NoError(t, err)

	t.Run("returns a new entity and leaves the receiver untouched", func(t *testing.T) {
		loaded, err := sys.WithContents([]Entity{child})
		require.NoError(t, err)

		assert.False(t, sys.ContentsLoaded())
		assert.True(t, loaded.ContentsLoaded())
		assert.Equal(t, KindSolarSystem, loaded.Kind())
		require.Len(t, loaded.Contents(), 1)
		assert.Equal(t, uint32(60003760), loaded.Contents()[0].ID())

		_, ok := loaded.(*SolarSystem)
		assert.True(t, ok)
	})

	t.Run("empty contents are still loaded", func(t *testing.T) {
		loaded, err := child.WithContents(nil)
		require.NoError(t, err)
		assert.True(t, loaded.ContentsLoaded())
		assert.Empty(t, loaded.Contents())
	})

	t.Run("content located elsewhere", func(t *testing.T) {
		stray, err := NewItem(1, station, ItemData{ItemID: 1, TypeID: 1529, LocationID: 99})
		require.NoError(t, err)
		_, err = sys.WithContents([]Entity{stray})
		var ce *ConsistencyError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "location_id", ce.Field)
	})
}

func TestGroup_String(t *testing.T) {
	assert.Equal(t, "Solar System", GroupSolarSystem.String())
	assert.Equal(t, "Station", GroupStation.String())
	assert.Equal(t, "group#999", Group(999).String())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("SolarSystem")
	require.NoError(t, err)
	assert.Equal(t, KindSolarSystem, k)

	k, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindItem, k)

	_, err = ParseKind("ship")
	assert.Error(t, err)
}

func TestDefaultTypes(t *testing.T) {
	seen := make(map[uint32]bool)
	for _, typ := range DefaultTypes {
		assert.False(t, seen[typ.ID], "duplicate default type %d", typ.ID)
		seen[typ.ID] = true
	}
	assert.True(t, IsDefaultType(5))
	assert.True(t, IsDefaultType(3796))
	assert.False(t, IsDefaultType(0))
	assert.Len(t, DefaultTypeIDs(), len(DefaultTypes))
}
