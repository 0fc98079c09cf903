// Package postgres provides a PostgreSQL implementation of the ItemDB interface.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/ersonp/universe-core/internal/domain/entities"
	"github.com/ersonp/universe-core/internal/infrastructure/config"
	"github.com/ersonp/universe-core/internal/infrastructure/relationaldb/models"
	"github.com/ersonp/universe-core/internal/log"
)

const driverName = "pgx"

var sqlOpen = sql.Open

// Repository implements ports.ItemDB using PostgreSQL.
type Repository struct {
	db *sql.DB
}

// NewRepository opens and pings a PostgreSQL database.
func NewRepository(ctx context.Context, cfg config.PostgresConfig) (*Repository, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := sqlOpen(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	log.Debug(log.CatDB, "postgres opened")
	return &Repository{db: db}, nil
}

// NewFromDB wraps an already open database.
func NewFromDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS inv_types (
		type_id BIGINT PRIMARY KEY,
		group_id BIGINT NOT NULL,
		category_id BIGINT NOT NULL DEFAULT 0,
		type_name TEXT NOT NULL,
		description TEXT,
		radius DOUBLE PRECISION NOT NULL DEFAULT 0,
		mass DOUBLE PRECISION NOT NULL DEFAULT 0,
		volume DOUBLE PRECISION NOT NULL DEFAULT 0,
		published BOOLEAN NOT NULL DEFAULT FALSE
	);
	CREATE INDEX IF NOT EXISTS idx_inv_types_group ON inv_types(group_id);

	CREATE TABLE IF NOT EXISTS entity (
		item_id BIGINT PRIMARY KEY,
		item_name TEXT NOT NULL DEFAULT '',
		type_id BIGINT NOT NULL,
		owner_id BIGINT NOT NULL DEFAULT 0,
		location_id BIGINT NOT NULL DEFAULT 0,
		flag BIGINT NOT NULL DEFAULT 0,
		contraband BOOLEAN NOT NULL DEFAULT FALSE,
		singleton BOOLEAN NOT NULL DEFAULT FALSE,
		quantity BIGINT NOT NULL DEFAULT 1,
		x DOUBLE PRECISION NOT NULL DEFAULT 0,
		y DOUBLE PRECISION NOT NULL DEFAULT 0,
		z DOUBLE PRECISION NOT NULL DEFAULT 0,
		custom_info TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_entity_location ON entity(location_id);

	CREATE TABLE IF NOT EXISTS map_solar_systems (
		solar_system_id BIGINT PRIMARY KEY,
		x_min DOUBLE PRECISION NOT NULL, y_min DOUBLE PRECISION NOT NULL, z_min DOUBLE PRECISION NOT NULL,
		x_max DOUBLE PRECISION NOT NULL, y_max DOUBLE PRECISION NOT NULL, z_max DOUBLE PRECISION NOT NULL,
		luminosity DOUBLE PRECISION NOT NULL DEFAULT 0,
		border BOOLEAN NOT NULL DEFAULT FALSE,
		fringe BOOLEAN NOT NULL DEFAULT FALSE,
		corridor BOOLEAN NOT NULL DEFAULT FALSE,
		hub BOOLEAN NOT NULL DEFAULT FALSE,
		international BOOLEAN NOT NULL DEFAULT FALSE,
		regional BOOLEAN NOT NULL DEFAULT FALSE,
		constellation BOOLEAN NOT NULL DEFAULT FALSE,
		security DOUBLE PRECISION NOT NULL DEFAULT 0,
		faction_id BIGINT NOT NULL DEFAULT 0,
		radius DOUBLE PRECISION NOT NULL DEFAULT 0,
		sun_type_id BIGINT NOT NULL,
		security_class TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS import_batches (
		batch_id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		types INTEGER NOT NULL DEFAULT 0,
		items INTEGER NOT NULL DEFAULT 0,
		solar_systems INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveType saves or updates a catalog type.
func (r *Repository) SaveType(ctx context.Context, t *entities.Type) error {
	query := `
		INSERT INTO inv_types (` + models.TypeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (type_id) DO UPDATE SET
			group_id = EXCLUDED.group_id,
			category_id = EXCLUDED.category_id,
			type_name = EXCLUDED.type_name,
			description = EXCLUDED.description,
			radius = EXCLUDED.radius,
			mass = EXCLUDED.mass,
			volume = EXCLUDED.volume,
			published = EXCLUDED.published
	`
	if _, err := r.db.ExecContext(ctx, query, models.ToTypeModel(t).Args()...); err != nil {
		return fmt.Errorf("saving type: %w", err)
	}
	return nil
}

// GetType finds a catalog type by id.
func (r *Repository) GetType(ctx context.Context, typeID uint32) (*entities.Type, error) {
	query := `SELECT ` + models.TypeColumns + ` FROM inv_types WHERE type_id = $1`

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
	rows, err := r.db.QueryContext(ctx, `SELECT `+models.TypeColumns+` FROM inv_types ORDER BY type_id`)
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

// SaveItem saves or updates a generic item record.
func (r *Repository) SaveItem(ctx context.Context, data *entities.ItemData) error {
	query := `
		INSERT INTO entity (` + models.ItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (item_id) DO UPDATE SET
			item_name = EXCLUDED.item_name,
			type_id = EXCLUDED.type_id,
			owner_id = EXCLUDED.owner_id,
			location_id = EXCLUDED.location_id,
			flag = EXCLUDED.flag,
			contraband = EXCLUDED.contraband,
			singleton = EXCLUDED.singleton,
			quantity = EXCLUDED.quantity,
			x = EXCLUDED.x, y = EXCLUDED.y, z = EXCLUDED.z,
			custom_info = EXCLUDED.custom_info
	`
	if _, err := r.db.ExecContext(ctx, query, models.ToItemModel(data).Args()...); err != nil {
		return fmt.Errorf("saving item: %w", err)
	}
	return nil
}

// GetItem returns the generic record of an item.
func (r *Repository) GetItem(ctx context.Context, itemID uint32) (*entities.ItemData, error) {
	query := `SELECT ` + models.ItemColumns + ` FROM entity WHERE item_id = $1`

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
	query := `SELECT ` + models.ItemColumns + ` FROM entity WHERE location_id = $1 ORDER BY item_id`

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

// SaveSolarSystem saves or updates the specialized record of a solar system.
func (r *Repository) SaveSolarSystem(ctx context.Context, itemID uint32, data *entities.SolarSystemData) error {
	query := `
		INSERT INTO map_solar_systems (` + models.SolarSystemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (solar_system_id) DO UPDATE SET
			x_min = EXCLUDED.x_min, y_min = EXCLUDED.y_min, z_min = EXCLUDED.z_min,
			x_max = EXCLUDED.x_max, y_max = EXCLUDED.y_max, z_max = EXCLUDED.z_max,
			luminosity = EXCLUDED.luminosity,
			border = EXCLUDED.border,
			fringe = EXCLUDED.fringe,
			corridor = EXCLUDED.corridor,
			hub = EXCLUDED.hub,
			international = EXCLUDED.international,
			regional = EXCLUDED.regional,
			constellation = EXCLUDED.constellation,
			security = EXCLUDED.security,
			faction_id = EXCLUDED.faction_id,
			radius = EXCLUDED.radius,
			sun_type_id = EXCLUDED.sun_type_id,
			security_class = EXCLUDED.security_class
	`
	if _, err := r.db.ExecContext(ctx, query, models.ToSolarSystemModel(itemID, data).Args()...); err != nil {
		return fmt.Errorf("saving solar system: %w", err)
	}
	return nil
}

// GetSolarSystem returns the specialized record of a solar system.
func (r *Repository) GetSolarSystem(ctx context.Context, itemID uint32) (*entities.SolarSystemData, error) {
	query := `SELECT ` + models.SolarSystemColumns + ` FROM map_solar_systems WHERE solar_system_id = $1`

	m, err := models.ScanSolarSystem(r.db.QueryRowContext(ctx, query, int64(itemID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning solar system: %w", err)
	}
	return m.ToDomain(), nil
}

// LogImport records an import batch.
func (r *Repository) LogImport(ctx context.Context, batch *entities.ImportBatch) error {
	query := `
		INSERT INTO import_batches (batch_id, source, types, items, solar_systems, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
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
