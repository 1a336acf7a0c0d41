// Package engine is the multi-hop route planner: config validation (C5
// support), the Route value type, and the Planner that ties catalog,
// galaxy, priceindex, trade, and fit together into Plan() (spec.md C6/C7).
package engine

import (
	"strings"

	"tradewinds/internal/catalog"
	"tradewinds/internal/tradeerr"
)

// arbitraryInsuranceBuffer is the credit safety margin held back from the
// trading budget by default, carried over verbatim from original_source/
// trade.py's same-named constant (a reserve against rounding and rebuy
// costs). Config.Insurance overrides it when set.
const arbitraryInsuranceBuffer = 42

// maxCapacity is the sanity ceiling original_source/trade.py enforces on
// cargo capacity regardless of ship (no single-hull Elite Dangerous ship
// exceeds it).
const maxCapacity = 1000

// Config is the planner's input: where to start, how far to look, and
// what to avoid (spec.md §4.5's option table).
type Config struct {
	Origin      string // "System/Station" or bare station name
	Destination string // optional goal station; "" means open-ended search
	Capacity    int64
	Credits     int64
	MaxUnits    int64 // per-item cap; 0 defaults to Capacity
	MaxJumpsPer int   // stargate jumps allowed between two trading stations
	MaxLyPer    float64
	MaxHops     int // number of trade hops in the route
	MaxAgeDays  int // 0 = no age filter

	Margin    float64 // fraction 0..0.25 discounting projected gain when budgeting the next hop
	Insurance int64   // credits held back from the trading budget; 0 defaults to arbitraryInsuranceBuffer

	AvoidItems  []string
	AvoidPlaces []string // system or station names to exclude entirely
	ViaStations []string // stations the route must visit (the origin counts); their order is not checked
	RestrictTo  []string // stations allowed as the destination of the current hop
	Unique      bool     // no station visited twice

	PadSize     string  // minimum pad size a destination station must offer: "", "S", "M", "L"
	MaxLs       float64 // max light-seconds from the system's star a destination may sit at; 0 = unlimited
	BlackMarket bool    // require destination stations to run a black market

	LsPenalty float64 // 0..1 smooth penalty applied to score, approximating supercruise time
	Direct    bool    // bypass the jump-graph BFS; treat RestrictTo stations as direct destinations

	Ship string // optional ship name; not read by Validate or Plan (ApplyShip takes a resolved *catalog.Ship)
}

// ApplyShip backfills Capacity and MaxLyPer from a Ship when the config
// left them unset, restoring original_source/data/ships.py's role as a
// source of per-ship defaults (SPEC_FULL.md §17).
func (c *Config) ApplyShip(ship *catalog.Ship) {
	if c.Capacity == 0 {
		c.Capacity = int64(ship.CargoCapacity)
	}
	if c.MaxLyPer == 0 {
		c.MaxLyPer = ship.MaxLyFull
	}
}

// Validate checks the config for the malformed-input cases
// original_source/trade.py's runCommand rejects before searching.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Origin) == "" {
		return &tradeerr.InvalidConfig{Reason: "origin is required"}
	}
	if c.Capacity <= 0 {
		return &tradeerr.InvalidConfig{Reason: "capacity must be positive"}
	}
	if c.Capacity > maxCapacity {
		return &tradeerr.InvalidConfig{Reason: "capacity exceeds the maximum cargo hold size"}
	}
	if c.Credits <= c.EffectiveInsurance() {
		return &tradeerr.InvalidConfig{Reason: "credits must exceed the insurance buffer"}
	}
	if c.MaxHops <= 0 {
		return &tradeerr.InvalidConfig{Reason: "max hops must be positive"}
	}
	if c.MaxLyPer <= 0 {
		return &tradeerr.InvalidConfig{Reason: "max light years per jump must be positive"}
	}
	if c.Unique && len(c.ViaStations) > c.MaxHops+1 {
		return &tradeerr.InvalidConfig{Reason: "unique route cannot satisfy more via-stations than it has stations (hops + 1)"}
	}
	if c.Margin < 0 || c.Margin > 0.25 {
		return &tradeerr.InvalidConfig{Reason: "margin must be between 0 and 0.25"}
	}
	if c.MaxUnits < 0 {
		return &tradeerr.InvalidConfig{Reason: "max units must not be negative"}
	}
	if c.LsPenalty < 0 || c.LsPenalty > 1 {
		return &tradeerr.InvalidConfig{Reason: "ls penalty must be between 0 and 1"}
	}
	if c.MaxLs < 0 {
		return &tradeerr.InvalidConfig{Reason: "max ls from star must not be negative"}
	}
	switch c.PadSize {
	case "", "S", "M", "L":
	default:
		return &tradeerr.InvalidConfig{Reason: "pad size must be one of S, M, L"}
	}
	if c.Direct && len(c.RestrictTo) == 0 {
		return &tradeerr.InvalidConfig{Reason: "direct mode requires restrict_to stations"}
	}
	return nil
}

// EffectiveInsurance is the insurance buffer actually in effect: the
// configured value, or arbitraryInsuranceBuffer when unset. Exported so
// callers rendering Route.Detail can report the buffer actually applied.
func (c *Config) EffectiveInsurance() int64 {
	if c.Insurance > 0 {
		return c.Insurance
	}
	return arbitraryInsuranceBuffer
}

// effectiveMaxUnits is the per-item cap actually in effect: the configured
// value, or Capacity (no tighter than the hold itself) when unset.
func (c *Config) effectiveMaxUnits() int64 {
	if c.MaxUnits > 0 {
		return c.MaxUnits
	}
	return c.Capacity
}

// tradeableCredits is the budget actually available to spend on cargo at
// the first hop, after setting aside the insurance buffer.
func (c *Config) tradeableCredits() int64 {
	return c.Credits - c.EffectiveInsurance()
}
