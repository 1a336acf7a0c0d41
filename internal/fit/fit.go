// Package fit selects which of a station pair's profitable trades (from
// internal/trade) to actually carry, subject to cargo capacity, available
// credits, and a per-item unit cap. Grounded on original_source/
// tradecalc.py's fastFit and bruteForceFit: trades arrive pre-sorted by
// descending gain (trade.Join's contract), so a greedy fill from the front
// of the list is usually optimal and is tried first; BruteForceFit is the
// exhaustive cross-check used in tests and for small trade sets where
// exactness matters more than speed.
package fit

import "tradewinds/internal/trade"

// Item is one trade included in a TradeLoad, with the unit count chosen.
type Item struct {
	Trade trade.Trade
	Units int64
}

// TradeLoad is cargo hold contents: the items carried and their totals.
// The zero value is the empty load (tradecalc.py's emptyLoad).
type TradeLoad struct {
	Items []Item
	Gain  int64
	Cost  int64
	Units int64
}

// Less reports whether l is worse than other: lower total gain loses
// outright; on equal gain, the load carrying more cargo units wins; on
// equal gain and units, the cheaper load wins (mirrors tradecalc.py's
// TradeLoad.__lt__ gain/units/cost tie-break).
func (l TradeLoad) Less(other TradeLoad) bool {
	if l.Gain != other.Gain {
		return l.Gain < other.Gain
	}
	if l.Units != other.Units {
		return l.Units < other.Units
	}
	return l.Cost > other.Cost
}

func addItem(l TradeLoad, t trade.Trade, units int64) TradeLoad {
	items := make([]Item, len(l.Items), len(l.Items)+1)
	copy(items, l.Items)
	items = append(items, Item{Trade: t, Units: units})
	return TradeLoad{
		Items: items,
		Gain:  l.Gain + t.GainCr*units,
		Cost:  l.Cost + t.CostCr*units,
		Units: l.Units + units,
	}
}

// maxAffordable bounds how many units of t can be bought given remaining
// capacity, credits, and the per-item cap maxUnits (qty <= max_units_per_item,
// spec.md §4.4), further bounded by the trade's own supply/demand limits
// when known (-1 means unlimited, per priceindex's convention).
func maxAffordable(t trade.Trade, capacity, credits, maxUnits int64) int64 {
	if t.CostCr <= 0 {
		return 0
	}
	units := min(capacity, credits/t.CostCr)
	if maxUnits > 0 {
		units = min(units, maxUnits)
	}
	if t.SupplyUnits >= 0 {
		units = min(units, t.SupplyUnits)
	}
	if t.DemandUnits >= 0 {
		units = min(units, t.DemandUnits)
	}
	return units
}

// FastFit greedily fills capacity from the best-gain trade downward. When
// the best-available trade alone fills the hold, that is returned
// immediately without exploring alternatives — tradecalc.py's early-exit —
// since trades are gain-sorted descending, nothing later in the list could
// beat using the full hold on the current best item. Otherwise it also
// considers skipping the current trade, in case a combination of cheaper
// items packs more total gain into the remaining space.
func FastFit(trades []trade.Trade, credits, capacity, maxUnits int64) TradeLoad {
	return fastFit(trades, 0, credits, capacity, maxUnits)
}

func fastFit(trades []trade.Trade, idx int, credits, capacity, maxUnits int64) TradeLoad {
	if idx >= len(trades) || capacity <= 0 || credits <= 0 {
		return TradeLoad{}
	}
	t := trades[idx]
	units := maxAffordable(t, capacity, credits, maxUnits)
	if units <= 0 {
		return fastFit(trades, idx+1, credits, capacity, maxUnits)
	}

	withItem := addItem(fastFit(trades, idx+1, credits-units*t.CostCr, capacity-units, maxUnits), t, units)
	if units == capacity {
		return withItem
	}

	without := fastFit(trades, idx+1, credits, capacity, maxUnits)
	if without.Less(withItem) {
		return withItem
	}
	return without
}

// BruteForceFit exhaustively tries every unit count for every trade in
// turn, guaranteeing the optimal TradeLoad at the cost of exponential time.
// Intended for tests and small trade sets (original_source/tradecalc.py's
// bruteForceFit), not the hot path.
func BruteForceFit(trades []trade.Trade, credits, capacity, maxUnits int64) TradeLoad {
	return bruteForceFit(trades, 0, credits, capacity, maxUnits)
}

func bruteForceFit(trades []trade.Trade, idx int, credits, capacity, maxUnits int64) TradeLoad {
	if idx >= len(trades) || capacity <= 0 || credits <= 0 {
		return TradeLoad{}
	}
	t := trades[idx]
	best := bruteForceFit(trades, idx+1, credits, capacity, maxUnits) // skip this trade entirely

	maxAffordableUnits := maxAffordable(t, capacity, credits, maxUnits)
	for units := maxAffordableUnits; units >= 1; units-- {
		rest := bruteForceFit(trades, idx+1, credits-units*t.CostCr, capacity-units, maxUnits)
		candidate := addItem(rest, t, units)
		if best.Less(candidate) {
			best = candidate
		}
	}
	return best
}
