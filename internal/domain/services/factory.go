package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/singleflight"

	"github.com/ersonp/universe-core/internal/domain/entities"
	"github.com/ersonp/universe-core/internal/domain/ports"
	"github.com/ersonp/universe-core/internal/infrastructure/metrics"
	"github.com/ersonp/universe-core/internal/log"
)

// DefaultMaxDepth bounds recursive contents loading when no depth is configured.
const DefaultMaxDepth = 8

// Prefetched carries stages a caller has already resolved. Any nil field is
// fetched as usual.
type Prefetched struct {
	Type *entities.Type
	Data *entities.ItemData
	// Specialized holds the kind-specific stage, e.g. *SolarSystemStage.
	Specialized any
}

func (p Prefetched) empty() bool {
	return p.Type == nil && p.Data == nil && p.Specialized == nil
}

// LoadOptions controls a single load.
type LoadOptions struct {
	// Recurse also loads the item's contents, depth-limited.
	Recurse    bool
	Prefetched Prefetched
}

// KindLoader builds the entity for one group. opts.Prefetched always carries
// the resolved type and generic record; contents are attached by the factory.
type KindLoader func(ctx context.Context, id uint32, opts LoadOptions) (entities.Entity, error)

// ItemFactory is the only component that constructs entities. It runs the
// staged resolution pipeline, fails fast on the first missing record and
// never returns a partially built object.
type ItemFactory struct {
	types    ports.TypeCatalog
	store    ports.ItemStore
	logger   *log.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	maxDepth int

	kindsMu sync.RWMutex
	kinds   map[entities.Group]KindLoader

	flight singleflight.Group
	live   *LiveRegistry
}

// Option configures an ItemFactory.
type Option func(*ItemFactory)

// WithLogger sets the diagnostics sink. Defaults to the package logger.
func WithLogger(l *log.Logger) Option {
	return func(f *ItemFactory) { f.logger = l }
}

// WithMetrics records every load.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *ItemFactory) { f.metrics = m }
}

// WithTracer wraps every load in a span.
func WithTracer(t trace.Tracer) Option {
	return func(f *ItemFactory) {
		if t != nil {
			f.tracer = t
		}
	}
}

// WithLiveRegistry keeps one live object per item id until it is released.
func WithLiveRegistry(enabled bool) Option {
	return func(f *ItemFactory) {
		if enabled {
			f.live = NewLiveRegistry()
		} else {
			f.live = nil
		}
	}
}

// WithMaxDepth bounds recursive contents loading. Values below 1 keep the default.
func WithMaxDepth(depth int) Option {
	return func(f *ItemFactory) {
		if depth > 0 {
			f.maxDepth = depth
		}
	}
}

// NewItemFactory creates a factory with the solar system kind registered.
func NewItemFactory(types ports.TypeCatalog, store ports.ItemStore, opts ...Option) *ItemFactory {
	f := &ItemFactory{
		types:    types,
		store:    store,
		tracer:   noop.NewTracerProvider().Tracer(""),
		maxDepth: DefaultMaxDepth,
		kinds:    make(map[entities.Group]KindLoader),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.RegisterKind(entities.GroupSolarSystem, func(ctx context.Context, id uint32, opts LoadOptions) (entities.Entity, error) {
		s, err := f.buildSolarSystem(ctx, id, opts.Prefetched)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	return f
}

// RegisterKind makes LoadItem delegate items of group to loader. A later
// registration for the same group replaces the earlier one.
func (f *ItemFactory) RegisterKind(group entities.Group, loader KindLoader) {
	f.kindsMu.Lock()
	defer f.kindsMu.Unlock()
	f.kinds[group] = loader
}

func (f *ItemFactory) kindLoader(group entities.Group) (KindLoader, bool) {
	f.kindsMu.RLock()
	defer f.kindsMu.RUnlock()
	loader, ok := f.kinds[group]
	return loader, ok
}

func (f *ItemFactory) diagnostics() *log.Logger {
	if f.logger != nil {
		return f.logger
	}
	return log.Default()
}

// LoadItem loads any item. The generic stage is resolved once and handed to
// the loader registered for the item's group; groups without a loader yield
// a generic *entities.Item.
func (f *ItemFactory) LoadItem(ctx context.Context, id uint32, opts LoadOptions) (entities.Entity, error) {
	return observe(ctx, f, "factory.LoadItem", entities.KindItem, id, func(ctx context.Context) (entities.Entity, error) {
		return f.shared(ctx, entities.KindItem, id, opts, func(ctx context.Context) (entities.Entity, error) {
			return f.loadItem(ctx, id, opts)
		})
	})
}

func (f *ItemFactory) loadItem(ctx context.Context, id uint32, opts LoadOptions) (entities.Entity, error) {
	typ, data, err := f.resolveGeneric(ctx, id, opts.Prefetched)
	if err != nil {
		return nil, err
	}

	var e entities.Entity
	if loader, ok := f.kindLoader(typ.GroupID); ok {
		e, err = loader(ctx, id, LoadOptions{
			Prefetched: Prefetched{Type: typ, Data: data, Specialized: opts.Prefetched.Specialized},
		})
	} else {
		if opts.Prefetched.Specialized != nil {
			return nil, fmt.Errorf("unexpected prefetched stage %T for a %s item", opts.Prefetched.Specialized, typ.GroupID)
		}
		var item *entities.Item
		item, err = entities.NewItem(id, typ, *data)
		if item != nil {
			e = item
		}
	}
	if err != nil {
		return nil, err
	}

	if opts.Recurse {
		return f.attachContents(ctx, e)
	}
	return e, nil
}

// resolveGeneric runs stages a and b: the generic record and its type.
func (f *ItemFactory) resolveGeneric(ctx context.Context, id uint32, pre Prefetched) (*entities.Type, *entities.ItemData, error) {
	data := pre.Data
	if data == nil {
		var err error
		data, err = f.store.GetItem(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("fetching item %d: %w", id, err)
		}
		if data == nil {
			return nil, nil, fmt.Errorf("item %d: %w", id, entities.ErrNotFound)
		}
	}

	typ := pre.Type
	if typ == nil {
		var err error
		typ, err = f.types.GetType(ctx, data.TypeID)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving type %d of item %d: %w", data.TypeID, id, err)
		}
		if typ == nil {
			return nil, nil, fmt.Errorf("item %d: type %d: %w", id, data.TypeID, entities.ErrNotFound)
		}
	}

	return typ, data, nil
}

// observe wraps a public load in a span and records its outcome.
func observe[T entities.Entity](ctx context.Context, f *ItemFactory, spanName string, kind entities.Kind, id uint32, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	ctx, span := f.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.Int64("item.id", int64(id)),
		attribute.String("item.kind", kind.String()),
	))
	defer span.End()

	e, err := fn(ctx)

	outcome := loadOutcome(err)
	span.SetAttributes(attribute.String("load.outcome", outcome))
	if err == nil {
		span.SetAttributes(attribute.Int64("type.id", int64(e.Type().ID)))
	} else if outcome == metrics.OutcomeConsistency || outcome == metrics.OutcomeError {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	f.metrics.ObserveLoad(kind.String(), outcome, start)

	return e, err
}

func loadOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, entities.ErrConsistency):
		return metrics.OutcomeConsistency
	case errors.Is(err, entities.ErrTypeMismatch):
		return metrics.OutcomeTypeMismatch
	case errors.Is(err, entities.ErrMissingDependency):
		return metrics.OutcomeMissingDependency
	case errors.Is(err, entities.ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
