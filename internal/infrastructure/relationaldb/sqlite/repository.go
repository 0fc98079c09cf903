// Package sqlite provides a SQLite implementation of the ItemDB interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/universe-core/internal/domain/entities"
	"github.com/ersonp/universe-core/internal/infrastructure/config"
	"github.com/ersonp/universe-core/internal/infrastructure/relationaldb/models"
	"github.com/ersonp/universe-core/internal/log"
)

// Repository implements ports.ItemDB using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	busyTimeout := cfg.BusyTimeoutMS
	if busyTimeout <= 0 {
		busyTimeout = 5000
	}
	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout)); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	log.Debug(log.CatDB, "sqlite opened", "path", cfg.Path)

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Type catalog
	CREATE TABLE IF NOT EXISTS inv_types (
		type_id INTEGER PRIMARY KEY,
		group_id INTEGER NOT NULL,
		category_id INTEGER NOT NULL DEFAULT 0,
		type_name TEXT NOT NULL,
		description TEXT,
		radius REAL NOT NULL DEFAULT 0,
		mass REAL NOT NULL DEFAULT 0,
		volume REAL NOT NULL DEFAULT 0,
		published INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_inv_types_group ON inv_types(group_id);

	-- Generic item records
	CREATE TABLE IF NOT EXISTS entity (
		item_id INTEGER PRIMARY KEY,
		item_name TEXT NOT NULL DEFAULT '',
		type_id INTEGER NOT NULL,
		owner_id INTEGER NOT NULL DEFAULT 0,
		location_id INTEGER NOT NULL DEFAULT 0,
		flag INTEGER NOT NULL DEFAULT 0,
		contraband INTEGER NOT NULL DEFAULT 0,
		singleton INTEGER NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL DEFAULT 1,
		x REAL NOT NULL DEFAULT 0,
		y REAL NOT NULL DEFAULT 0,
		z REAL NOT NULL DEFAULT 0,
		custom_info TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_entity_location ON entity(location_id);

	-- Solar system records
	CREATE TABLE IF NOT EXISTS map_solar_systems (
		solar_system_id INTEGER PRIMARY KEY,
		x_min REAL NOT NULL, y_min REAL NOT NULL, z_min REAL NOT NULL,
		x_max REAL NOT NULL, y_max REAL NOT NULL, z_max REAL NOT NULL,
		luminosity REAL NOT NULL DEFAULT 0,
		border INTEGER NOT NULL DEFAULT 0,
		fringe INTEGER NOT NULL DEFAULT 0,
		corridor INTEGER NOT NULL DEFAULT 0,
		hub INTEGER NOT NULL DEFAULT 0,
		international INTEGER NOT NULL DEFAULT 0,
		regional INTEGER NOT NULL DEFAULT 0,
		constellation INTEGER NOT NULL DEFAULT 0,
		security REAL NOT NULL DEFAULT 0,
		faction_id INTEGER NOT NULL DEFAULT 0,
		radius REAL NOT NULL DEFAULT 0,
		sun_type_id INTEGER NOT NULL,
		security_class TEXT NOT NULL DEFAULT ''
	);

	-- Import log
	CREATE TABLE IF NOT EXISTS import_batches (
		batch_id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		types INTEGER NOT NULL DEFAULT 0,
		items INTEGER NOT NULL DEFAULT 0,
		solar_systems INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Type catalog

// SaveType saves or updates a catalog type.
func (r *Repository) SaveType(ctx context.Context, t *entities.Type) error {
	query := `
		INSERT INTO inv_types (` + models.TypeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(type_id) DO UPDATE SET
			group_id = excluded.group_id,
			category_id = excluded.category_id,
			type_name = excluded.type_name,
			description = excluded.description,
			radius = excluded.radius,
			mass = excluded.mass,
			volume = excluded.volume,
			published = excluded.published
	`
	if _, err := r.db.ExecContext(ctx, query, models.ToTypeModel(t).Args()...); err != nil {
		return fmt.Errorf("saving type: %w", err)
	}
	return nil
}

// GetType finds a catalog type by id.
func (r *Repository) GetType(ctx context.Context, typeID uint32) (*entities.Type, error) {
	query := `SELECT ` + models.TypeColumns + ` FROM inv_types WHERE type_id = ?`

	m, err := models.ScanType(r.db.QueryRowContext(ctx, query, int64(typeID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning type: %w", err)
	}
	return m.ToDomain(), nil
}

// ListTypes lists all catalog types ordered by id.
func (r *Repository) ListTypes(ctx context.Context) ([]entities.Type, error) {
	query := `SELECT ` + models.TypeColumns + ` FROM inv_types ORDER BY type_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying types: %w", err)
	}
	defer rows.Close()

	var types []entities.Type
	for rows.Next() {
		m, err := models.ScanType(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning type: %w", err)
		}
		types = append(types, *m.ToDomain())
	}
	return types, rows.Err()
}

// Items

// SaveItem saves or updates a generic item record.
func (r *Repository) SaveItem(ctx context.Context, data *entities.ItemData) error {
	query := `
		INSERT INTO entity (` + models.ItemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
			item_name = excluded.item_name,
			type_id = excluded.type_id,
			owner_id = excluded.owner_id,
			location_id = excluded.location_id,
			flag = excluded.flag,
			contraband = excluded.contraband,
			singleton = excluded.singleton,
			quantity = excluded.quantity,
			x = excluded.x, y = excluded.y, z = excluded.z,
			custom_info = excluded.custom_info
	`
	if _, err := r.db.ExecContext(ctx, query, models.ToItemModel(data).Args()...); err != nil {
		return fmt.Errorf("saving item: %w", err)
	}
	return nil
}

// GetItem returns the generic record of an item.
func (r *Repository) GetItem(ctx context.Context, itemID uint32) (*entities.ItemData, error) {
	query := `SELECT ` + models.ItemColumns + ` FROM entity WHERE item_id = ?`

	m, err := models.ScanItem(r.db.QueryRowContext(ctx, query, int64(itemID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning item: %w", err)
	}
	return m.ToDomain(), nil
}

// ListContents returns the items located in locationID ordered by id.
func (r *Repository) ListContents(ctx context.Context, locationID uint32) ([]entities.ItemData, error) {
	query := `SELECT ` + models.ItemColumns + ` FROM entity WHERE location_id = ? ORDER BY item_id`

	rows, err := r.db.QueryContext(ctx, query, int64(locationID))
	if err != nil {
		return nil, fmt.Errorf("querying contents: %w", err)
	}
	defer rows.Close()

	var items []entities.ItemData
	for rows.Next() {
		m, err := models.ScanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *m.ToDomain())
	}
	return items, rows.Err()
}

// CountItems returns the number of generic item records.
func (r *Repository) CountItems(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entity`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return count, nil
}

// Solar systems

// SaveSolarSystem saves or updates the specialized record of a solar system.
func (r *Repository) SaveSolarSystem(ctx context.Context, itemID uint32, data *entities.SolarSystemData) error {
	query := `
		INSERT OR REPLACE INTO map_solar_systems (` + models.SolarSystemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, models.ToSolarSystemModel(itemID, data).Args()...); err != nil {
		return fmt.Errorf("saving solar system: %w", err)
	}
	return nil
}

// GetSolarSystem returns the specialized record of a solar system.
func (r *Repository) GetSolarSystem(ctx context.Context, itemID uint32) (*entities.SolarSystemData, error) {
	query := `SELECT ` + models.SolarSystemColumns + ` FROM map_solar_systems WHERE solar_system_id = ?`

	m, err := models.ScanSolarSystem(r.db.QueryRowContext(ctx, query, int64(itemID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning solar system: %w", err)
	}
	return m.ToDomain(), nil
}

// Import log

// LogImport records an import batch.
func (r *Repository) LogImport(ctx context.Context, batch *entities.ImportBatch) error {
	query := `
		INSERT INTO import_batches (batch_id, source, types, items, solar_systems, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		batch.ID,
		batch.Source,
		batch.Types,
		batch.Items,
		batch.Systems,
		batch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("logging import: %w", err)
	}
	return nil
}
