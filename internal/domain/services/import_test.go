package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/universe-core/internal/domain/entities"
	"github.com/ersonp/universe-core/internal/domain/mocks"
	"github.com/ersonp/universe-core/internal/infrastructure/metrics"
	"github.com/ersonp/universe-core/internal/infrastructure/parsers"
)

func jitaDump() *parsers.Dump {
	return &parsers.Dump{
		Types: []parsers.RawType{
			{TypeID: 5, GroupID: 5, Name: "Solar System"},
			{TypeID: 3796, GroupID: 6, Name: "Sun G5 (Yellow)", Radius: 5e8},
		},
		Items: []parsers.RawItem{
			{ItemID: 30000142, TypeID: 5, Name: "Jita", LocationID: 20000020},
		},
		SolarSystems: []parsers.RawSolarSystem{
			{SolarSystemID: 30000142, Security: 0.946, SunTypeID: 3796, XMax: 1, YMax: 1, ZMax: 1, Hub: true},
		},
	}
}

func TestImportService_Import_ValidDump(t *testing.T) {
	db := mocks.NewItemDB()
	service := NewImportService(db, nil, nil)

	result, err := service.Import(context.Background(), jitaDump(), ImportOptions{OnConflict: ConflictOverwrite, Source: "jita.json"})

	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.Types)
	assert.Equal(t, 1, result.Items)
	assert.Equal(t, 1, result.SolarSystems)
	assert.Equal(t, 4, result.Imported())
	assert.NotEmpty(t, result.BatchID)

	require.Contains(t, db.Items, uint32(30000142))
	assert.Equal(t, uint32(1), db.Items[30000142].Quantity)
	require.Contains(t, db.Systems, uint32(30000142))
	assert.Equal(t, uint32(3796), db.Systems[30000142].SunTypeID)
	assert.True(t, db.Systems[30000142].Hub)

	require.Len(t, db.Batches, 1)
	assert.Equal(t, result.BatchID, db.Batches[0].ID)
	assert.Equal(t, "jita.json", db.Batches[0].Source)
	assert.Equal(t, 1, db.Batches[0].Systems)
}

func TestImportService_Import_DryRun(t *testing.T) {
	db := mocks.NewItemDB()
	service := NewImportService(db, nil, nil)

	result, err := service.Import(context.Background(), jitaDump(), ImportOptions{DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, 4, result.Imported())
	assert.Empty(t, result.BatchID)
	assert.Equal(t, 0, db.CallCount("SaveType"))
	assert.Equal(t, 0, db.CallCount("SaveItem"))
	assert.Equal(t, 0, db.CallCount("SaveSolarSystem"))
	assert.Empty(t, db.Batches)
}

func TestImportService_Import_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		dump  *parsers.Dump
		kind  string
		field string
	}{
		{
			name:  "type without name",
			dump:  &parsers.Dump{Types: []parsers.RawType{{TypeID: 5, GroupID: 5}}},
			kind:  "types",
			field: "name",
		},
		{
			name:  "type without group",
			dump:  &parsers.Dump{Types: []parsers.RawType{{TypeID: 5, Name: "Solar System"}}},
			kind:  "types",
			field: "group_id",
		},
		{
			name:  "item with unknown type",
			dump:  &parsers.Dump{Items: []parsers.RawItem{{ItemID: 1, TypeID: 999}}},
			kind:  "items",
			field: "type_id",
		},
		{
			name:  "item without id",
			dump:  &parsers.Dump{Items: []parsers.RawItem{{TypeID: 5}}},
			kind:  "items",
			field: "item_id",
		},
		{
			name: "security out of range",
			dump: &parsers.Dump{SolarSystems: []parsers.RawSolarSystem{
				{SolarSystemID: 30000142, SunTypeID: 3796, Security: 1.5},
			}},
			kind:  "solar_systems",
			field: "security",
		},
		{
			name: "inverted bounds",
			dump: &parsers.Dump{SolarSystems: []parsers.RawSolarSystem{
				{SolarSystemID: 30000142, SunTypeID: 3796, XMin: 2, XMax: 1},
			}},
			kind:  "solar_systems",
			field: "bounds",
		},
		{
			name: "system without item record",
			dump: &parsers.Dump{SolarSystems: []parsers.RawSolarSystem{
				{SolarSystemID: 30000142, SunTypeID: 3796},
			}},
			kind:  "solar_systems",
			field: "solar_system_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := mocks.NewItemDB()
			service := NewImportService(db, nil, nil)

			result, err := service.Import(context.Background(), tt.dump, ImportOptions{OnConflict: ConflictOverwrite})

			require.NoError(t, err)
			assert.Equal(t, 0, result.Imported())
			require.Len(t, result.Errors, 1)
			assert.Equal(t, tt.kind, result.Errors[0].Kind)
			assert.Equal(t, tt.field, result.Errors[0].Field)
			assert.Equal(t, 1, result.Errors[0].Line)
			assert.Empty(t, db.Batches)
		})
	}
}

func TestImportService_Import_SystemOnNonSystemItem(t *testing.T) {
	db := mocks.NewItemDB()
	db.Types[15] = &entities.Type{ID: 15, GroupID: entities.GroupStation, Name: "Station"}
	db.Types[3796] = &entities.Type{ID: 3796, GroupID: entities.GroupSun, Name: "Sun G5 (Yellow)"}
	db.Items[60003760] = &entities.ItemData{ItemID: 60003760, TypeID: 15}
	service := NewImportService(db, nil, nil)

	dump := &parsers.Dump{SolarSystems: []parsers.RawSolarSystem{
		{SolarSystemID: 60003760, SunTypeID: 3796, LineNum: 7},
	}}
	result, err := service.Import(context.Background(), dump, ImportOptions{})

	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 7, result.Errors[0].Line)
	assert.Contains(t, result.Errors[0].Message, "Station")
	assert.Equal(t, "solar_systems line 7: "+result.Errors[0].Message, result.Errors[0].Error())
	assert.Equal(t, 0, db.CallCount("SaveSolarSystem"))
}

func TestImportService_Import_ReferencesExistingRecords(t *testing.T) {
	db := mocks.NewItemDB()
	db.Types[5] = &entities.Type{ID: 5, GroupID: entities.GroupSolarSystem, Name: "Solar System"}
	db.Types[3796] = &entities.Type{ID: 3796, GroupID: entities.GroupSun, Name: "Sun G5 (Yellow)"}
	db.Items[30000142] = &entities.ItemData{ItemID: 30000142, TypeID: 5, Name: "Jita"}
	service := NewImportService(db, nil, nil)

	dump := &parsers.Dump{SolarSystems: []parsers.RawSolarSystem{
		{SolarSystemID: 30000142, SunTypeID: 3796, Security: 0.9},
	}}
	result, err := service.Import(context.Background(), dump, ImportOptions{OnConflict: ConflictOverwrite})

	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.SolarSystems)
}

func TestImportService_Import_DuplicateInDump(t *testing.T) {
	db := mocks.NewItemDB()
	service := NewImportService(db, nil, nil)

	dump := &parsers.Dump{Types: []parsers.RawType{
		{TypeID: 5, GroupID: 5, Name: "Solar System"},
		{TypeID: 5, GroupID: 5, Name: "Solar System again"},
	}}
	result, err := service.Import(context.Background(), dump, ImportOptions{OnConflict: ConflictOverwrite})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Types)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Line)
	assert.Equal(t, "Solar System", db.Types[5].Name)
}

func TestImportService_Import_ConflictSkip(t *testing.T) {
	db := mocks.NewItemDB()
	db.Types[5] = &entities.Type{ID: 5, GroupID: entities.GroupSolarSystem, Name: "Existing"}
	service := NewImportService(db, nil, nil)

	result, err := service.Import(context.Background(), jitaDump(), ImportOptions{OnConflict: ConflictSkip})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Types)
	assert.Equal(t, "Existing", db.Types[5].Name)
}

func TestImportService_Import_ConflictOverwrite(t *testing.T) {
	db := mocks.NewItemDB()
	db.Types[5] = &entities.Type{ID: 5, GroupID: entities.GroupSolarSystem, Name: "Existing"}
	service := NewImportService(db, nil, nil)

	result, err := service.Import(context.Background(), jitaDump(), ImportOptions{OnConflict: ConflictOverwrite})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, "Solar System", db.Types[5].Name)
}

func TestImportService_Import_InvalidatesCatalog(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewItemDB()
	db.Types[5] = &entities.Type{ID: 5, GroupID: entities.GroupSolarSystem, Name: "Old Name"}
	catalog := NewTypeCatalogService(db)

	before, err := catalog.GetType(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Old Name", before.Name)

	service := NewImportService(db, catalog, nil)
	_, err = service.Import(ctx, jitaDump(), ImportOptions{OnConflict: ConflictOverwrite})
	require.NoError(t, err)

	after, err := catalog.GetType(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "Solar System", after.Name)
}

func TestImportService_Import_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	service := NewImportService(mocks.NewItemDB(), nil, m)

	_, err := service.Import(context.Background(), jitaDump(), ImportOptions{OnConflict: ConflictOverwrite})

	require.NoError(t, err)
	assert.InDelta(t, 2, testutil.ToFloat64(m.ImportedRecords.WithLabelValues("types")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ImportedRecords.WithLabelValues("items")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ImportedRecords.WithLabelValues("solar_systems")), 0)
}

func TestImportService_Import_DatabaseError(t *testing.T) {
	db := mocks.NewItemDB()
	db.Err = errors.New("connection refused")
	service := NewImportService(db, nil, nil)

	_, err := service.Import(context.Background(), jitaDump(), ImportOptions{OnConflict: ConflictOverwrite})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
