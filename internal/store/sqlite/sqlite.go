// Package sqlite is a concrete store.Store backed by a SQLite database
// shaped like TradeDangerous's own schema (System, Station, Item, Ship,
// StationSelling, StationBuying — see original_source/cache.py's INSERT
// statements). It assumes the database is already populated; turning
// ".prices" text files into these rows is the external loader's job and
// out of scope (spec.md §1).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"tradewinds/internal/logger"
	"tradewinds/internal/store"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite connection opened against a pre-populated price
// database.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and ensures its schema exists, creating
// empty tables if this is a fresh database. Grounded on the teacher's
// internal/db.Open (same DSN pragma shape, same logger.Success on success).
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite store: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	logger.Success("Store", fmt.Sprintf("opened %s", path))
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS System (
			system_id INTEGER PRIMARY KEY,
			name      TEXT NOT NULL UNIQUE,
			pos_x     REAL NOT NULL,
			pos_y     REAL NOT NULL,
			pos_z     REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS Station (
			station_id   INTEGER PRIMARY KEY,
			system_id    INTEGER NOT NULL REFERENCES System(system_id),
			name         TEXT NOT NULL,
			ls_from_star REAL NOT NULL DEFAULT 0,
			black_market TEXT NOT NULL DEFAULT '?',
			max_pad_size TEXT NOT NULL DEFAULT '?',
			shipyard     TEXT NOT NULL DEFAULT '?',
			outfitting   TEXT NOT NULL DEFAULT '?',
			refuel       TEXT NOT NULL DEFAULT '?',
			item_count   INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_station_system ON Station(system_id);

		CREATE TABLE IF NOT EXISTS Item (
			item_id  INTEGER PRIMARY KEY,
			name     TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS Ship (
			ship_id        INTEGER PRIMARY KEY,
			name           TEXT NOT NULL UNIQUE,
			cargo_capacity REAL NOT NULL,
			max_ly_full    REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS StationSelling (
			station_id INTEGER NOT NULL REFERENCES Station(station_id),
			item_id    INTEGER NOT NULL REFERENCES Item(item_id),
			price      INTEGER NOT NULL,
			units      INTEGER NOT NULL DEFAULT -1,
			level      INTEGER NOT NULL DEFAULT -1,
			modified   TEXT NOT NULL,
			PRIMARY KEY (station_id, item_id)
		);
		CREATE INDEX IF NOT EXISTS idx_selling_item ON StationSelling(item_id);

		CREATE TABLE IF NOT EXISTS StationBuying (
			station_id INTEGER NOT NULL REFERENCES Station(station_id),
			item_id    INTEGER NOT NULL REFERENCES Item(item_id),
			price      INTEGER NOT NULL,
			units      INTEGER NOT NULL DEFAULT -1,
			level      INTEGER NOT NULL DEFAULT -1,
			modified   TEXT NOT NULL,
			PRIMARY KEY (station_id, item_id)
		);
		CREATE INDEX IF NOT EXISTS idx_buying_item ON StationBuying(item_id);
	`)
	return err
}

func (s *Store) Systems(ctx context.Context) ([]store.SystemRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT system_id, name, pos_x, pos_y, pos_z FROM System`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.SystemRow
	for rows.Next() {
		var r store.SystemRow
		if err := rows.Scan(&r.ID, &r.Name, &r.X, &r.Y, &r.Z); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Stations(ctx context.Context) ([]store.StationRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT station_id, system_id, name, ls_from_star, black_market,
		       max_pad_size, shipyard, outfitting, refuel, item_count
		  FROM Station
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.StationRow
	for rows.Next() {
		var r store.StationRow
		if err := rows.Scan(
			&r.ID, &r.SystemID, &r.Name, &r.LsFromStar, &r.BlackMarket,
			&r.MaxPadSize, &r.Shipyard, &r.Outfitting, &r.Refuel, &r.ItemCount,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Items(ctx context.Context) ([]store.ItemRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item_id, name, category FROM Item`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.ItemRow
	for rows.Next() {
		var r store.ItemRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Category); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Ships(ctx context.Context) ([]store.ShipRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ship_id, name, cargo_capacity, max_ly_full FROM Ship`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.ShipRow
	for rows.Next() {
		var r store.ShipRow
		if err := rows.Scan(&r.ID, &r.Name, &r.CargoCapacity, &r.MaxLyFull); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) StationSellings(ctx context.Context, maxAgeDays int) ([]store.PriceRow, error) {
	return s.priceRows(ctx, "StationSelling", maxAgeDays)
}

func (s *Store) StationBuyings(ctx context.Context, maxAgeDays int) ([]store.PriceRow, error) {
	return s.priceRows(ctx, "StationBuying", maxAgeDays)
}

func (s *Store) priceRows(ctx context.Context, table string, maxAgeDays int) ([]store.PriceRow, error) {
	query := fmt.Sprintf(`SELECT station_id, item_id, price, units, level, modified FROM %s`, table)
	if maxAgeDays > 0 {
		query += fmt.Sprintf(` WHERE JULIANDAY(modified) >= JULIANDAY('now') - %d`, maxAgeDays)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.PriceRow
	for rows.Next() {
		var r store.PriceRow
		if err := rows.Scan(&r.StationID, &r.ItemID, &r.Price, &r.Units, &r.Level, &r.Modified); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
