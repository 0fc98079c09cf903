package ports

import (
	"context"

	"github.com/ersonp/universe-core/internal/domain/entities"
)

// TypeCatalog resolves type identifiers to catalog metadata.
// Implementations must be safe for concurrent readers.
type TypeCatalog interface {
	// GetType returns nil, nil when the type does not exist.
	GetType(ctx context.Context, typeID uint32) (*entities.Type, error)
}

// ItemStore reads persisted item records. Absence is reported as nil, nil;
// errors are reserved for I/O failures.
type ItemStore interface {
	// GetItem returns the generic record of an item.
	GetItem(ctx context.Context, itemID uint32) (*entities.ItemData, error)

	// GetSolarSystem returns the specialized record of a solar system.
	GetSolarSystem(ctx context.Context, itemID uint32) (*entities.SolarSystemData, error)

	// ListContents returns the generic records of every item located in
	// locationID, ordered by item id.
	ListContents(ctx context.Context, locationID uint32) ([]entities.ItemData, error)
}

// ItemDB is the persistence backend: the read side the factory consumes plus
// the writes an import needs.
type ItemDB interface {
	ItemStore

	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Type catalog

	// SaveType saves or updates a catalog type.
	SaveType(ctx context.Context, t *entities.Type) error

	// GetType finds a catalog type by id. Returns nil, nil when absent.
	GetType(ctx context.Context, typeID uint32) (*entities.Type, error)

	// ListTypes lists all catalog types ordered by id.
	ListTypes(ctx context.Context) ([]entities.Type, error)

	// Items

	// SaveItem saves or updates a generic item record.
	SaveItem(ctx context.Context, data *entities.ItemData) error

	// SaveSolarSystem saves or updates the specialized record of a solar system.
	SaveSolarSystem(ctx context.Context, itemID uint32, data *entities.SolarSystemData) error

	// CountItems returns the number of generic item records.
	CountItems(ctx context.Context) (int, error)

	// LogImport records an import batch.
	LogImport(ctx context.Context, batch *entities.ImportBatch) error
}
