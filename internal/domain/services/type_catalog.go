package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ersonp/universe-core/internal/domain/entities"
	"github.com/ersonp/universe-core/internal/domain/ports"
	"github.com/ersonp/universe-core/internal/infrastructure/cache"
	"github.com/ersonp/universe-core/internal/infrastructure/metrics"
	"github.com/ersonp/universe-core/internal/log"
)

// errTypeAbsent keeps absent types out of the cache; GetType turns it back
// into nil, nil.
var errTypeAbsent = errors.New("type absent")

type typeKey string

func keyForType(id uint32) typeKey {
	return typeKey("type:" + strconv.FormatUint(uint64(id), 10))
}

type typeLookup struct {
	id      uint32
	fetched *bool
}

// TypeCatalogService resolves catalog types, caching what the database returns.
// It implements ports.TypeCatalog.
type TypeCatalogService struct {
	db      ports.ItemDB
	cache   *cache.ReadThrough[typeKey, *entities.Type, typeLookup]
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *log.Logger
}

// TypeCatalogOption configures a TypeCatalogService.
type TypeCatalogOption func(*typeCatalogOptions)

type typeCatalogOptions struct {
	ttl      time.Duration
	cleanup  time.Duration
	disabled bool
	metrics  *metrics.Metrics
	logger   *log.Logger
}

// WithTypeCacheTTL sets how long resolved types stay cached.
func WithTypeCacheTTL(ttl, cleanupInterval time.Duration) TypeCatalogOption {
	return func(o *typeCatalogOptions) {
		o.ttl = ttl
		o.cleanup = cleanupInterval
	}
}

// WithTypeCacheDisabled sends every lookup to the database.
func WithTypeCacheDisabled(disabled bool) TypeCatalogOption {
	return func(o *typeCatalogOptions) { o.disabled = disabled }
}

// WithCatalogMetrics records lookups as hits, misses and absences.
func WithCatalogMetrics(m *metrics.Metrics) TypeCatalogOption {
	return func(o *typeCatalogOptions) { o.metrics = m }
}

// WithCatalogLogger sets the logger used by the cache.
func WithCatalogLogger(l *log.Logger) TypeCatalogOption {
	return func(o *typeCatalogOptions) { o.logger = l }
}

// NewTypeCatalogService creates a new TypeCatalogService.
func NewTypeCatalogService(db ports.ItemDB, opts ...TypeCatalogOption) *TypeCatalogService {
	o := typeCatalogOptions{
		ttl:     cache.DefaultExpiration,
		cleanup: cache.DefaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &TypeCatalogService{
		db:      db,
		ttl:     o.ttl,
		metrics: o.metrics,
		logger:  o.logger,
	}
	manager := cache.NewInMemory[typeKey, *entities.Type]("types", o.ttl, o.cleanup, o.logger)
	s.cache = cache.NewReadThrough[typeKey, *entities.Type, typeLookup](manager, s.fetch, o.disabled)
	return s
}

func (s *TypeCatalogService) fetch(ctx context.Context, in typeLookup) (*entities.Type, error) {
	*in.fetched = true
	t, err := s.db.GetType(ctx, in.id)
	if err != nil {
		return nil, fmt.Errorf("fetching type %d: %w", in.id, err)
	}
	if t == nil {
		return nil, errTypeAbsent
	}
	return t, nil
}

// GetType returns the type with the given id, or nil, nil if it does not exist.
// The returned type is shared and must not be modified.
func (s *TypeCatalogService) GetType(ctx context.Context, typeID uint32) (*entities.Type, error) {
	fetched := false
	t, err := s.cache.Get(ctx, keyForType(typeID), typeLookup{id: typeID, fetched: &fetched}, s.ttl)
	switch {
	case errors.Is(err, errTypeAbsent):
		s.metrics.RecordTypeLookup(metrics.LookupAbsent)
		return nil, nil
	case err != nil:
		return nil, err
	case fetched:
		s.metrics.RecordTypeLookup(metrics.LookupMiss)
	default:
		s.metrics.RecordTypeLookup(metrics.LookupHit)
	}
	return t, nil
}

// List returns all catalog types ordered by id.
func (s *TypeCatalogService) List(ctx context.Context) ([]entities.Type, error) {
	return s.db.ListTypes(ctx)
}

// LoadDefaults seeds the default types that are not in the database yet and
// returns how many were written.
func (s *TypeCatalogService) LoadDefaults(ctx context.Context) (int, error) {
	existing, err := s.db.ListTypes(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing types: %w", err)
	}

	existingSet := make(map[uint32]bool, len(existing))
	for _, t := range existing {
		existingSet[t.ID] = true
	}

	seeded := 0
	for _, t := range entities.DefaultTypes {
		if existingSet[t.ID] {
			continue
		}
		tCopy := t
		if err := s.db.SaveType(ctx, &tCopy); err != nil {
			return seeded, fmt.Errorf("seeding type %d: %w", t.ID, err)
		}
		seeded++
	}
	if err := s.Invalidate(ctx); err != nil {
		return seeded, err
	}
	return seeded, nil
}

// Invalidate drops every cached type.
func (s *TypeCatalogService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}
