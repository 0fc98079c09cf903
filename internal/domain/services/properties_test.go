package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/ersonp/universe-core/internal/domain/entities"
	"github.com/ersonp/universe-core/internal/domain/mocks"
	"github.com/ersonp/universe-core/internal/log"
)

var nonSystemGroups = []entities.Group{
	entities.GroupRegion,
	entities.GroupConstellation,
	entities.GroupSun,
	entities.GroupPlanet,
	entities.GroupMoon,
	entities.GroupAsteroidBelt,
	entities.GroupStargate,
	entities.GroupStation,
}

func drawSystem(t *rapid.T, db *mocks.ItemDB) uint32 {
	id := rapid.Uint32Range(30000001, 30005000).Draw(t, "id")
	sun := rapid.Uint32Range(3796, 3802).Draw(t, "sun")
	db.Types[5] = &entities.Type{ID: 5, GroupID: entities.GroupSolarSystem, Name: "Solar System"}
	db.Types[sun] = &entities.Type{ID: sun, GroupID: entities.GroupSun, Name: fmt.Sprintf("Sun %d", sun)}
	db.Items[id] = &entities.ItemData{
		ItemID:   id,
		TypeID:   5,
		Name:     rapid.StringMatching(`[A-Z][a-z]{2,8}`).Draw(t, "name"),
		OwnerID:  rapid.Uint32().Draw(t, "owner"),
		Quantity: 1,
	}
	db.Systems[id] = &entities.SolarSystemData{
		Security:  rapid.Float64Range(-1, 1).Draw(t, "security"),
		Radius:    rapid.Float64Range(0, 1e13).Draw(t, "radius"),
		FactionID: rapid.Uint32().Draw(t, "faction"),
		Hub:       rapid.Bool().Draw(t, "hub"),
		Border:    rapid.Bool().Draw(t, "border"),
		SunTypeID: sun,
	}
	return id
}

func TestProperty_AbsentIDsAreSilentNotFound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		db := mocks.NewItemDB()
		var buf bytes.Buffer
		factory := NewItemFactory(db, db, WithLogger(log.New(&buf, log.LevelDebug)))
		id := rapid.Uint32().Draw(t, "id")

		_, err := factory.LoadSolarSystem(context.Background(), id, LoadOptions{})
		if !isNotFound(err) {
			t.Fatalf("LoadSolarSystem(%d) = %v, want not found", id, err)
		}
		_, err = factory.LoadItem(context.Background(), id, LoadOptions{})
		if !isNotFound(err) {
			t.Fatalf("LoadItem(%d) = %v, want not found", id, err)
		}
		if buf.Len() != 0 {
			t.Fatalf("unexpected log output: %q", buf.String())
		}
	})
}

func TestProperty_WrongGroupLogsOnce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		db := mocks.NewItemDB()
		var buf bytes.Buffer
		factory := NewItemFactory(db, db, WithLogger(log.New(&buf, log.LevelDebug)))

		id := rapid.Uint32Range(1, 1<<31).Draw(t, "id")
		typeID := rapid.Uint32Range(1, 100000).Draw(t, "typeID")
		group := rapid.SampledFrom(nonSystemGroups).Draw(t, "group")
		name := rapid.StringMatching(`[A-Z][a-z]{3,12}`).Draw(t, "typeName")
		db.Types[typeID] = &entities.Type{ID: typeID, GroupID: group, Name: name}
		db.Items[id] = &entities.ItemData{ItemID: id, TypeID: typeID}

		_, err := factory.LoadSolarSystem(context.Background(), id, LoadOptions{})
		if !isNotFound(err) || !isTypeMismatch(err) {
			t.Fatalf("LoadSolarSystem(%d) = %v, want type mismatch", id, err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 1 {
			t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
		}
		if !strings.Contains(lines[0], name) || !strings.Contains(lines[0], fmt.Sprintf("item_id=%d", id)) {
			t.Fatalf("log line %q does not name type %q and item %d", lines[0], name, id)
		}
	})
}

func TestProperty_LoadedSunMatchesStoredRecord(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		db := mocks.NewItemDB()
		id := drawSystem(t, db)
		factory := NewItemFactory(db, db, WithLogger(log.Discard()))

		system, err := factory.LoadSolarSystem(context.Background(), id, LoadOptions{})
		if err != nil {
			t.Fatalf("LoadSolarSystem(%d): %v", id, err)
		}
		if system.SunType().ID != db.Systems[id].SunTypeID {
			t.Fatalf("sun type %d, stored %d", system.SunType().ID, db.Systems[id].SunTypeID)
		}
		if system.SystemData() != *db.Systems[id] {
			t.Fatalf("system data %+v, stored %+v", system.SystemData(), *db.Systems[id])
		}
		if system.Data() != *db.Items[id] {
			t.Fatalf("item data %+v, stored %+v", system.Data(), *db.Items[id])
		}
	})
}

func TestProperty_LoadIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		db := mocks.NewItemDB()
		id := drawSystem(t, db)
		factory := NewItemFactory(db, db, WithLogger(log.Discard()))

		first, err := factory.LoadSolarSystem(context.Background(), id, LoadOptions{})
		if err != nil {
			t.Fatalf("first load: %v", err)
		}
		second, err := factory.LoadSolarSystem(context.Background(), id, LoadOptions{})
		if err != nil {
			t.Fatalf("second load: %v", err)
		}
		if first.Data() != second.Data() || first.SystemData() != second.SystemData() ||
			*first.Type() != *second.Type() || *first.SunType() != *second.SunType() {
			t.Fatalf("loads differ: %+v vs %+v", first, second)
		}
	})
}

func TestProperty_MismatchedSunNeverConstructs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		db := mocks.NewItemDB()
		id := drawSystem(t, db)
		stored := db.Systems[id].SunTypeID
		other := rapid.Uint32().Filter(func(v uint32) bool { return v != stored }).Draw(t, "otherSun")
		factory := NewItemFactory(db, db, WithLogger(log.Discard()))

		system, err := factory.LoadSolarSystem(context.Background(), id, LoadOptions{
			Prefetched: Prefetched{Specialized: &SolarSystemStage{SunType: &entities.Type{ID: other, GroupID: entities.GroupSun}}},
		})
		if system != nil {
			t.Fatalf("got a system from a mismatched sun type")
		}
		if !isConsistency(err) || isNotFound(err) {
			t.Fatalf("err = %v, want a consistency error", err)
		}
	})
}

func isNotFound(err error) bool     { return errors.Is(err, entities.ErrNotFound) }
func isTypeMismatch(err error) bool { return errors.Is(err, entities.ErrTypeMismatch) }
func isConsistency(err error) bool  { return errors.Is(err, entities.ErrConsistency) }
