package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"delivery-geo-engine/internal/features/geocoding/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresGeocodeCache implements ports.GeocodeCache backed by a postgres
// table, for deployments where geocoding results should survive process
// restarts. Keys are expected to be normalized by the caller.
type PostgresGeocodeCache struct {
	db *sql.DB
}

// OpenPostgresGeocodeCache connects to postgres, ensures the cache table
// exists and returns the adapter.
func OpenPostgresGeocodeCache(ctx context.Context, databaseURL string) (*PostgresGeocodeCache, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify postgres connection: %w", err)
	}

	c := &PostgresGeocodeCache{db: db}
	if err := c.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return c, nil
}

func (c *PostgresGeocodeCache) ensureSchema(ctx context.Context) error {
	const q = `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address            TEXT PRIMARY KEY,
		lat                DOUBLE PRECISION NOT NULL,
		lng                DOUBLE PRECISION NOT NULL,
		formatted_address  TEXT NOT NULL DEFAULT ''
	);`

	if _, err := c.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("failed to create geocode_cache table: %w", err)
	}
	return nil
}

// Get returns the cached entry for the key, with found=false on a miss.
func (c *PostgresGeocodeCache) Get(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
	const q = `
	SELECT lat, lng, formatted_address
	FROM geocode_cache
	WHERE address = $1;`

	var entry domain.CacheEntry
	err := c.db.QueryRowContext(ctx, q, key).Scan(
		&entry.Coordinate.Lat,
		&entry.Coordinate.Lng,
		&entry.FormattedAddress,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		return domain.CacheEntry{}, false, fmt.Errorf("failed to query geocode_cache: %w", err)
	}

	return entry, true, nil
}

// Put stores the entry under the key, replacing any previous value.
func (c *PostgresGeocodeCache) Put(ctx context.Context, key string, entry domain.CacheEntry) error {
	const q = `
	INSERT INTO geocode_cache (address, lat, lng, formatted_address)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (address) DO UPDATE
	SET lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		formatted_address = EXCLUDED.formatted_address;`

	if _, err := c.db.ExecContext(ctx, q, key, entry.Coordinate.Lat, entry.Coordinate.Lng, entry.FormattedAddress); err != nil {
		return fmt.Errorf("failed to upsert geocode_cache entry %q: %w", key, err)
	}

	return nil
}

// Close closes the underlying database handle.
func (c *PostgresGeocodeCache) Close() error {
	return c.db.Close()
}
