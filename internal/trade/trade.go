// Package trade computes and memoizes the profitable item set between two
// stations (spec.md's C4 merge-join and the "trading_with" memoization
// spec.md §9 asks the planner to own rather than store on a Station).
// Grounded on original_source/tradecalc.py's getProfitables/getTrades: a
// merge-join over two item-id-sorted lists, since priceindex.Load already
// sorts each station's entries by item id (spec.md §4.2).
package trade

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"tradewinds/internal/priceindex"
)

// Trade is one profitable item move: buy at the source for CostCr/unit,
// sell at the destination for CostCr+GainCr per unit.
type Trade struct {
	ItemID      int64
	CostCr      int64
	GainCr      int64
	SupplyUnits int64 // -1 unknown; source's sellable stock
	DemandUnits int64 // -1 unknown; destination's buyable capacity
}

// Join merge-scans sell (sorted ascending by item id) against buy (same)
// and returns every item present in both with a positive per-unit gain,
// sorted by descending gain then ascending cost — tradecalc.py's
// "getTrades" ordering, so fit.FastFit can greedily consider the best
// trades first.
func Join(sell []priceindex.SellEntry, buy []priceindex.BuyEntry) []Trade {
	var out []Trade
	i, j := 0, 0
	for i < len(sell) && j < len(buy) {
		switch {
		case sell[i].ItemID < buy[j].ItemID:
			i++
		case sell[i].ItemID > buy[j].ItemID:
			j++
		default:
			s, b := sell[i], buy[j]
			gain := b.Price - s.Price
			if gain > 0 {
				out = append(out, Trade{
					ItemID:      s.ItemID,
					CostCr:      s.Price,
					GainCr:      gain,
					SupplyUnits: s.Units,
					DemandUnits: b.Units,
				})
			}
			i++
			j++
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].GainCr != out[b].GainCr {
			return out[a].GainCr > out[b].GainCr
		}
		return out[a].CostCr < out[b].CostCr
	})
	return out
}

// pairKey identifies a (source station, destination station) pair.
type pairKey [2]int64

// Cache memoizes Join results across a single Plan() call, matching
// tradecalc.py's srcStation.tradingWith[dstStation] cache but owned by the
// planner rather than the Station value (spec.md §9's explicit guidance,
// since a Station is shared across concurrent Plan() calls). Concurrent
// first-requests for the same pair are deduplicated via singleflight so
// only one Join actually runs.
type Cache struct {
	idx   *priceindex.Index
	mu    sync.RWMutex
	cache map[pairKey][]Trade
	group singleflight.Group
}

// NewCache builds an empty, per-Plan() Cache over idx.
func NewCache(idx *priceindex.Index) *Cache {
	return &Cache{idx: idx, cache: make(map[pairKey][]Trade)}
}

// Trades returns the (memoized) profitable trades from src to dst.
func (c *Cache) Trades(ctx context.Context, src, dst int64) ([]Trade, error) {
	key := pairKey{src, dst}

	c.mu.RLock()
	if t, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return t, nil
	}
	c.mu.RUnlock()

	groupKey := joinKey(src, dst)
	v, err, _ := c.group.Do(groupKey, func() (interface{}, error) {
		c.mu.RLock()
		if t, ok := c.cache[key]; ok {
			c.mu.RUnlock()
			return t, nil
		}
		c.mu.RUnlock()

		trades := Join(c.idx.Selling[src], c.idx.Buying[dst])

		c.mu.Lock()
		c.cache[key] = trades
		c.mu.Unlock()
		return trades, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Trade), nil
}

func joinKey(src, dst int64) string {
	return strconv.FormatInt(src, 10) + ":" + strconv.FormatInt(dst, 10)
}
