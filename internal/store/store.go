// Package store defines the boundary between the planner and the external
// relational store that holds parsed price data (spec.md §6). Loading that
// store from price-file text (the TradeDangerous ".prices" format) is an
// external collaborator's job and out of scope here; this package only
// defines the shape of what the Catalog and PriceIndex consume, plus one
// concrete SQLite-backed implementation in the sqlite subpackage.
package store

import "context"

// SystemRow is one row of the System table: id, name, 3D galactic position.
type SystemRow struct {
	ID      int64
	Name    string
	X, Y, Z float64
}

// StationRow is one row of the Station table.
type StationRow struct {
	ID          int64
	SystemID    int64
	Name        string
	LsFromStar  float64
	BlackMarket string // "Y", "N", or "?"
	MaxPadSize  string // "S", "M", "L", or "?"
	Shipyard    string // "Y", "N", or "?"
	Outfitting  string // "Y", "N", or "?"
	Refuel      string // "Y", "N", or "?"
	ItemCount   int
}

// ItemRow is one row of the Item table.
type ItemRow struct {
	ID       int64
	Name     string
	Category string
}

// ShipRow is one row of the Ship table (restored from original_source's
// data/ships.py; dropped by the spec.md distillation, see SPEC_FULL.md §17).
type ShipRow struct {
	ID            int64
	Name          string
	CargoCapacity float64
	MaxLyFull     float64
}

// PriceRow is one row of StationSelling or StationBuying: station_id,
// item_id, price, units, level, modified (SQLite datetime text, per
// spec.md §6).
type PriceRow struct {
	StationID int64
	ItemID    int64
	Price     int64
	Units     int64 // -1 = unknown
	Level     int   // -1 unknown, 0 none, 1 low, 2 med, 3 high
	Modified  string
}

// Store is the relational store consumed by Catalog and PriceIndex
// construction (spec.md §6, §4.1). maxAgeDays, when > 0, is applied at
// source ("WHERE modified >= now - maxAgeDays") as spec.md §4.1 specifies.
type Store interface {
	Systems(ctx context.Context) ([]SystemRow, error)
	Stations(ctx context.Context) ([]StationRow, error)
	Items(ctx context.Context) ([]ItemRow, error)
	Ships(ctx context.Context) ([]ShipRow, error)
	StationSellings(ctx context.Context, maxAgeDays int) ([]PriceRow, error)
	StationBuyings(ctx context.Context, maxAgeDays int) ([]PriceRow, error)
}
