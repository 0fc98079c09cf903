package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/universe-core/internal/domain/entities"
	"github.com/ersonp/universe-core/internal/domain/mocks"
	"github.com/ersonp/universe-core/internal/domain/services"
	"github.com/ersonp/universe-core/internal/log"
)

func newTestItemHandler(t *testing.T, opts ...services.Option) (*ItemHandler, *mocks.ItemDB) {
	t.Helper()
	db := mocks.NewItemDB()
	catalog := services.NewTypeCatalogService(db)
	_, err := catalog.LoadDefaults(context.Background())
	require.NoError(t, err)

	db.Items[30000142] = &entities.ItemData{ItemID: 30000142, TypeID: 5, Name: "Jita", LocationID: 20000020}
	db.Systems[30000142] = &entities.SolarSystemData{
		Security: 0.9, SunTypeID: 3796, Hub: true, Regional: true, SecurityClass: "B",
		FactionID: 500001, Radius: 1.1e12, Luminosity: 0.01575,
	}
	db.Items[60003760] = &entities.ItemData{ItemID: 60003760, TypeID: 1529, Name: "Jita IV - Moon 4", LocationID: 30000142, Quantity: 1}

	opts = append([]services.Option{services.WithLogger(log.Discard())}, opts...)
	factory := services.NewItemFactory(catalog, db, opts...)
	return NewItemHandler(factory), db
}

func TestItemHandler_HandleLoad_SolarSystem(t *testing.T) {
	handler, _ := newTestItemHandler(t)

	view, err := handler.HandleLoad(context.Background(), LoadRequest{ID: 30000142, Kind: entities.KindSolarSystem})

	require.NoError(t, err)
	assert.Equal(t, "solarsystem", view.Kind)
	assert.Equal(t, "Jita", view.Name)
	assert.Equal(t, "Solar System", view.Group)
	require.NotNil(t, view.System)
	assert.Equal(t, uint32(3796), view.System.SunTypeID)
	assert.Equal(t, "Sun G5 (Yellow)", view.System.SunTypeName)
	assert.Equal(t, []string{"hub", "regional"}, view.System.Flags)
	assert.InDelta(t, 0.9, view.System.Security, 0)
	assert.Equal(t, "B", view.System.SecurityClass)
	assert.Equal(t, uint32(500001), view.System.FactionID)
	assert.InDelta(t, 1.1e12, view.System.Radius, 0)
	assert.InDelta(t, 0.01575, view.System.Luminosity, 0)
	assert.Nil(t, view.Contents)
}

func TestItemHandler_HandleLoad_Recurse(t *testing.T) {
	handler, _ := newTestItemHandler(t)

	view, err := handler.HandleLoad(context.Background(), LoadRequest{ID: 30000142, Recurse: true})

	require.NoError(t, err)
	require.NotNil(t, view.System)
	require.Len(t, view.Contents, 1)
	station := view.Contents[0]
	assert.Equal(t, uint32(60003760), station.ID)
	assert.Equal(t, "item", station.Kind)
	assert.Equal(t, "Station", station.Group)
	assert.Nil(t, station.System)
	assert.NotNil(t, station.Contents)
	assert.Empty(t, station.Contents)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"solar_system"`)
	assert.Contains(t, string(raw), `"contents"`)
}

func TestItemHandler_HandleLoad_Mismatch(t *testing.T) {
	handler, _ := newTestItemHandler(t)

	view, err := handler.HandleLoad(context.Background(), LoadRequest{ID: 60003760, Kind: entities.KindSolarSystem})

	assert.Nil(t, view)
	assert.ErrorIs(t, err, entities.ErrTypeMismatch)
}

func TestItemHandler_HandleLoad_NotFound(t *testing.T) {
	handler, _ := newTestItemHandler(t)

	view, err := handler.HandleLoad(context.Background(), LoadRequest{ID: 1})

	assert.Nil(t, view)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestItemHandler_HandleRelease(t *testing.T) {
	handler, db := newTestItemHandler(t, services.WithLiveRegistry(true))
	ctx := context.Background()

	_, err := handler.HandleLoad(ctx, LoadRequest{ID: 30000142})
	require.NoError(t, err)
	_, err = handler.HandleLoad(ctx, LoadRequest{ID: 30000142})
	require.NoError(t, err)
	assert.Equal(t, 1, db.CallCount("GetItem"))

	assert.True(t, handler.HandleRelease(30000142))
	assert.False(t, handler.HandleRelease(30000142))

	_, err = handler.HandleLoad(ctx, LoadRequest{ID: 30000142})
	require.NoError(t, err)
	assert.Equal(t, 2, db.CallCount("GetItem"))
}
