package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/universe-core/internal/domain/entities"
	"github.com/ersonp/universe-core/internal/domain/ports"
	"github.com/ersonp/universe-core/internal/infrastructure/metrics"
	"github.com/ersonp/universe-core/internal/infrastructure/parsers"
	"github.com/ersonp/universe-core/internal/log"
)

// ConflictStrategy defines how to handle existing records during import.
type ConflictStrategy string

const (
	// ConflictSkip skips records that already exist (by ID).
	ConflictSkip ConflictStrategy = "skip"
	// ConflictOverwrite overwrites existing records with new data.
	ConflictOverwrite ConflictStrategy = "overwrite"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun     bool             // Validate without saving
	OnConflict ConflictStrategy // How to handle existing records
	Source     string           // Recorded with the batch, usually the file name
}

// ImportError represents an error for a specific record during import.
type ImportError struct {
	Kind    string // types, items or solar_systems
	Line    int    // Line number (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s line %d: %s", e.Kind, e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	BatchID      string
	Types        int
	Items        int
	SolarSystems int
	Skipped      int
	Errors       []ImportError
}

// Imported returns the number of records written (or that would be, on a dry run).
func (r *ImportResult) Imported() int {
	return r.Types + r.Items + r.SolarSystems
}

// ImportService handles importing universe dumps into the item database.
type ImportService struct {
	db      ports.ItemDB
	catalog *TypeCatalogService
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewImportService creates a new import service. catalog may be nil; when
// set, its cache is invalidated after types are written.
func NewImportService(db ports.ItemDB, catalog *TypeCatalogService, m *metrics.Metrics) *ImportService {
	return &ImportService{
		db:      db,
		catalog: catalog,
		metrics: m,
		now:     time.Now,
	}
}

// importSet is the validated part of a dump.
type importSet struct {
	types   []entities.Type
	items   []entities.ItemData
	systems map[uint32]*entities.SolarSystemData
	order   []uint32 // solar system ids in input order
}

// Import validates the dump and writes every valid record. Invalid records
// are reported in the result and never written.
func (s *ImportService) Import(ctx context.Context, dump *parsers.Dump, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	set, validationErrors, err := s.validate(ctx, dump)
	if err != nil {
		return nil, err
	}
	result.Errors = validationErrors

	if opts.DryRun {
		result.Types = len(set.types)
		result.Items = len(set.items)
		result.SolarSystems = len(set.order)
		return result, nil
	}

	if err := s.save(ctx, set, opts.OnConflict, result); err != nil {
		return nil, err
	}

	if result.Types > 0 && s.catalog != nil {
		if err := s.catalog.Invalidate(ctx); err != nil {
			return nil, fmt.Errorf("invalidating type cache: %w", err)
		}
	}

	s.metrics.AddImported("types", result.Types)
	s.metrics.AddImported("items", result.Items)
	s.metrics.AddImported("solar_systems", result.SolarSystems)

	if result.Imported() == 0 {
		return result, nil
	}

	batch := &entities.ImportBatch{
		ID:        uuid.New().String(),
		Source:    opts.Source,
		Types:     result.Types,
		Items:     result.Items,
		Systems:   result.SolarSystems,
		CreatedAt: s.now(),
	}
	if err := s.db.LogImport(ctx, batch); err != nil {
		return nil, fmt.Errorf("recording import batch: %w", err)
	}
	result.BatchID = batch.ID

	log.Info(log.CatImport, "import finished",
		"batch", batch.ID, "source", opts.Source,
		"types", result.Types, "items", result.Items, "solar_systems", result.SolarSystems,
		"skipped", result.Skipped, "errors", len(result.Errors))

	return result, nil
}

// validate checks every record. Records may reference types and items from
// the same dump or from the database.
func (s *ImportService) validate(ctx context.Context, dump *parsers.Dump) (*importSet, []ImportError, error) {
	set := &importSet{systems: make(map[uint32]*entities.SolarSystemData)}
	var errs []ImportError

	dumpTypes := make(map[uint32]entities.Group, len(dump.Types))
	for i := range dump.Types {
		raw := &dump.Types[i]
		if e := validateRawType(raw, lineOf(raw.LineNum, i)); e != nil {
			errs = append(errs, *e)
			continue
		}
		if _, dup := dumpTypes[raw.TypeID]; dup {
			errs = append(errs, ImportError{Kind: "types", Line: lineOf(raw.LineNum, i), Field: "type_id",
				Value: fmt.Sprint(raw.TypeID), Message: "duplicate type_id in dump"})
			continue
		}
		dumpTypes[raw.TypeID] = entities.Group(raw.GroupID)
		set.types = append(set.types, toType(raw))
	}

	groupOf := func(typeID uint32) (entities.Group, bool, error) {
		if g, ok := dumpTypes[typeID]; ok {
			return g, true, nil
		}
		t, err := s.db.GetType(ctx, typeID)
		if err != nil {
			return 0, false, fmt.Errorf("looking up type %d: %w", typeID, err)
		}
		if t == nil {
			return 0, false, nil
		}
		return t.GroupID, true, nil
	}

	dumpItems := make(map[uint32]uint32, len(dump.Items)) // item id -> type id
	for i := range dump.Items {
		raw := &dump.Items[i]
		line := lineOf(raw.LineNum, i)
		if raw.ItemID == 0 {
			errs = append(errs, ImportError{Kind: "items", Line: line, Field: "item_id", Message: "missing required field: item_id"})
			continue
		}
		if raw.TypeID == 0 {
			errs = append(errs, ImportError{Kind: "items", Line: line, Field: "type_id", Message: "missing required field: type_id"})
			continue
		}
		if _, dup := dumpItems[raw.ItemID]; dup {
			errs = append(errs, ImportError{Kind: "items", Line: line, Field: "item_id",
				Value: fmt.Sprint(raw.ItemID), Message: "duplicate item_id in dump"})
			continue
		}
		_, found, err := groupOf(raw.TypeID)
		if err != nil {
			return nil, nil, err
		}
		if !found {
			errs = append(errs, ImportError{Kind: "items", Line: line, Field: "type_id",
				Value: fmt.Sprint(raw.TypeID), Message: fmt.Sprintf("unknown type %d", raw.TypeID)})
			continue
		}
		dumpItems[raw.ItemID] = raw.TypeID
		set.items = append(set.items, toItemData(raw))
	}

	for i := range dump.SolarSystems {
		raw := &dump.SolarSystems[i]
		line := lineOf(raw.LineNum, i)
		if e := validateRawSolarSystem(raw, line); e != nil {
			errs = append(errs, *e)
			continue
		}
		if _, dup := set.systems[raw.SolarSystemID]; dup {
			errs = append(errs, ImportError{Kind: "solar_systems", Line: line, Field: "solar_system_id",
				Value: fmt.Sprint(raw.SolarSystemID), Message: "duplicate solar_system_id in dump"})
			continue
		}

		itemTypeID, ok := dumpItems[raw.SolarSystemID]
		if !ok {
			item, err := s.db.GetItem(ctx, raw.SolarSystemID)
			if err != nil {
				return nil, nil, fmt.Errorf("looking up item %d: %w", raw.SolarSystemID, err)
			}
			if item == nil {
				errs = append(errs, ImportError{Kind: "solar_systems", Line: line, Field: "solar_system_id",
					Value: fmt.Sprint(raw.SolarSystemID), Message: "no item record for solar system"})
				continue
			}
			itemTypeID = item.TypeID
		}
		group, _, err := groupOf(itemTypeID)
		if err != nil {
			return nil, nil, err
		}
		if group != entities.GroupSolarSystem {
			errs = append(errs, ImportError{Kind: "solar_systems", Line: line, Field: "solar_system_id",
				Value: fmt.Sprint(raw.SolarSystemID), Message: fmt.Sprintf("item type %d is %s, not a solar system", itemTypeID, group)})
			continue
		}

		if _, found, err := groupOf(raw.SunTypeID); err != nil {
			return nil, nil, err
		} else if !found {
			errs = append(errs, ImportError{Kind: "solar_systems", Line: line, Field: "sun_type_id",
				Value: fmt.Sprint(raw.SunTypeID), Message: fmt.Sprintf("unknown sun type %d", raw.SunTypeID)})
			continue
		}

		set.systems[raw.SolarSystemID] = toSolarSystemData(raw)
		set.order = append(set.order, raw.SolarSystemID)
	}

	return set, errs, nil
}

func lineOf(lineNum, index int) int {
	if lineNum == 0 {
		return index + 1
	}
	return lineNum
}

func validateRawType(raw *parsers.RawType, line int) *ImportError {
	if raw.TypeID == 0 {
		return &ImportError{Kind: "types", Line: line, Field: "type_id", Message: "missing required field: type_id"}
	}
	if raw.GroupID == 0 {
		return &ImportError{Kind: "types", Line: line, Field: "group_id", Message: "missing required field: group_id"}
	}
	if raw.Name == "" {
		return &ImportError{Kind: "types", Line: line, Field: "name", Message: "missing required field: name"}
	}
	return nil
}

func validateRawSolarSystem(raw *parsers.RawSolarSystem, line int) *ImportError {
	if raw.SolarSystemID == 0 {
		return &ImportError{Kind: "solar_systems", Line: line, Field: "solar_system_id", Message: "missing required field: solar_system_id"}
	}
	if raw.SunTypeID == 0 {
		return &ImportError{Kind: "solar_systems", Line: line, Field: "sun_type_id", Message: "missing required field: sun_type_id"}
	}
	if raw.Security < -1 || raw.Security > 1 {
		return &ImportError{
			Kind:    "solar_systems",
			Line:    line,
			Field:   "security",
			Value:   fmt.Sprintf("%f", raw.Security),
			Message: "security must be between -1 and 1",
		}
	}
	if raw.XMin > raw.XMax || raw.YMin > raw.YMax || raw.ZMin > raw.ZMax {
		return &ImportError{Kind: "solar_systems", Line: line, Field: "bounds", Message: "min bound exceeds max bound"}
	}
	return nil
}

func toType(raw *parsers.RawType) entities.Type {
	return entities.Type{
		ID:          raw.TypeID,
		GroupID:     entities.Group(raw.GroupID),
		CategoryID:  entities.Category(raw.CategoryID),
		Name:        raw.Name,
		Description: raw.Description,
		Radius:      raw.Radius,
		Mass:        raw.Mass,
		Volume:      raw.Volume,
		Published:   raw.Published,
	}
}

func toItemData(raw *parsers.RawItem) entities.ItemData {
	quantity := raw.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return entities.ItemData{
		ItemID:     raw.ItemID,
		TypeID:     raw.TypeID,
		Name:       raw.Name,
		OwnerID:    raw.OwnerID,
		LocationID: raw.LocationID,
		Flag:       raw.Flag,
		Contraband: raw.Contraband,
		Singleton:  raw.Singleton,
		Quantity:   quantity,
		Position:   entities.Position{X: raw.X, Y: raw.Y, Z: raw.Z},
		CustomInfo: raw.CustomInfo,
	}
}

func toSolarSystemData(raw *parsers.RawSolarSystem) *entities.SolarSystemData {
	return &entities.SolarSystemData{
		MinPosition:   entities.Position{X: raw.XMin, Y: raw.YMin, Z: raw.ZMin},
		MaxPosition:   entities.Position{X: raw.XMax, Y: raw.YMax, Z: raw.ZMax},
		Luminosity:    raw.Luminosity,
		Border:        raw.Border,
		Fringe:        raw.Fringe,
		Corridor:      raw.Corridor,
		Hub:           raw.Hub,
		International: raw.International,
		Regional:      raw.Regional,
		Constellation: raw.Constellation,
		Security:      raw.Security,
		FactionID:     raw.FactionID,
		Radius:        raw.Radius,
		SunTypeID:     raw.SunTypeID,
		SecurityClass: raw.SecurityClass,
	}
}

// save writes the validated set, types first so items can reference them.
func (s *ImportService) save(ctx context.Context, set *importSet, onConflict ConflictStrategy, result *ImportResult) error {
	skip := onConflict == ConflictSkip

	for i := range set.types {
		t := &set.types[i]
		if skip {
			existing, err := s.db.GetType(ctx, t.ID)
			if err != nil {
				return fmt.Errorf("checking type %d: %w", t.ID, err)
			}
			if existing != nil {
				result.Skipped++
				continue
			}
		}
		if err := s.db.SaveType(ctx, t); err != nil {
			return fmt.Errorf("saving type %d: %w", t.ID, err)
		}
		result.Types++
	}

	for i := range set.items {
		d := &set.items[i]
		if skip {
			existing, err := s.db.GetItem(ctx, d.ItemID)
			if err != nil {
				return fmt.Errorf("checking item %d: %w", d.ItemID, err)
			}
			if existing != nil {
				result.Skipped++
				continue
			}
		}
		if err := s.db.SaveItem(ctx, d); err != nil {
			return fmt.Errorf("saving item %d: %w", d.ItemID, err)
		}
		result.Items++
	}

	for _, id := range set.order {
		if skip {
			existing, err := s.db.GetSolarSystem(ctx, id)
			if err != nil {
				return fmt.Errorf("checking solar system %d: %w", id, err)
			}
			if existing != nil {
				result.Skipped++
				continue
			}
		}
		if err := s.db.SaveSolarSystem(ctx, id, set.systems[id]); err != nil {
			return fmt.Errorf("saving solar system %d: %w", id, err)
		}
		result.SolarSystems++
	}

	return nil
}
