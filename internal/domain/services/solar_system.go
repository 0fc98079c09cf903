package services

import (
	"context"
	"fmt"

	"github.com/ersonp/universe-core/internal/domain/entities"
	"github.com/ersonp/universe-core/internal/log"
)

// SolarSystemStage is the specialized stage of a solar system load. Either
// field may be nil to have it fetched.
type SolarSystemStage struct {
	SunType *entities.Type
	Data    *entities.SolarSystemData
}

// LoadSolarSystem loads id as a solar system. Stages already present in
// opts.Prefetched are not fetched again.
//
// It returns an error matching entities.ErrNotFound when a record is absent,
// entities.ErrTypeMismatch when the item is not a solar system and
// entities.ErrMissingDependency when the sun type cannot be resolved. A
// *entities.ConsistencyError means the stored records disagree. The caller
// owns the returned system.
func (f *ItemFactory) LoadSolarSystem(ctx context.Context, id uint32, opts LoadOptions) (*entities.SolarSystem, error) {
	return observe(ctx, f, "factory.LoadSolarSystem", entities.KindSolarSystem, id, func(ctx context.Context) (*entities.SolarSystem, error) {
		e, err := f.shared(ctx, entities.KindSolarSystem, id, opts, func(ctx context.Context) (entities.Entity, error) {
			s, err := f.buildSolarSystem(ctx, id, opts.Prefetched)
			if err != nil {
				return nil, err
			}
			if opts.Recurse {
				return f.attachContents(ctx, s)
			}
			return s, nil
		})
		if err != nil {
			return nil, err
		}
		s, ok := e.(*entities.SolarSystem)
		if !ok {
			return nil, fmt.Errorf("item %d: loaded %s, want %s", id, e.Kind(), entities.KindSolarSystem)
		}
		return s, nil
	})
}

// buildSolarSystem runs stages a to g without attaching contents.
func (f *ItemFactory) buildSolarSystem(ctx context.Context, id uint32, pre Prefetched) (*entities.SolarSystem, error) {
	stage, err := solarSystemStage(pre.Specialized)
	if err != nil {
		return nil, err
	}

	// a, b
	typ, data, err := f.resolveGeneric(ctx, id, pre)
	if err != nil {
		return nil, err
	}

	// c
	if typ.GroupID != entities.GroupSolarSystem {
		f.diagnostics().Error(log.CatItem, "Trying to load item as solar system",
			"type_name", typ.Name,
			"type_id", typ.ID,
			"item_id", id,
			"group", typ.GroupID,
		)
		return nil, fmt.Errorf("item %d: type %q (%d) is %s, want %s: %w",
			id, typ.Name, typ.ID, typ.GroupID, entities.GroupSolarSystem, entities.ErrTypeMismatch)
	}

	// d
	system := stage.Data
	if system == nil {
		system, err = f.store.GetSolarSystem(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetching solar system %d: %w", id, err)
		}
		if system == nil {
			return nil, fmt.Errorf("solar system %d: %w", id, entities.ErrNotFound)
		}
	}

	// e
	sunType := stage.SunType
	if sunType == nil {
		sunType, err = f.types.GetType(ctx, system.SunTypeID)
		if err != nil {
			return nil, fmt.Errorf("resolving sun type %d of solar system %d: %w", system.SunTypeID, id, err)
		}
		if sunType == nil {
			return nil, fmt.Errorf("solar system %d: sun type %d: %w", id, system.SunTypeID, entities.ErrMissingDependency)
		}
	}

	// f, g: NewSolarSystem validates every invariant before it allocates.
	return entities.NewSolarSystem(id, typ, *data, sunType, *system)
}

func solarSystemStage(specialized any) (SolarSystemStage, error) {
	switch s := specialized.(type) {
	case nil:
		return SolarSystemStage{}, nil
	case *SolarSystemStage:
		if s == nil {
			return SolarSystemStage{}, nil
		}
		return *s, nil
	case SolarSystemStage:
		return s, nil
	default:
		return SolarSystemStage{}, fmt.Errorf("unexpected prefetched stage %T for a solar system", specialized)
	}
}
