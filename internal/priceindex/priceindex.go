// Package priceindex builds the per-station sellings/buyings indices
// (spec.md's C2) from a store.Store, computing data age at load time and
// sorting each station's entries by item id so the trade package can
// merge-join them in O(min(|a|,|b|)) (spec.md §4.2).
package priceindex

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tradewinds/internal/store"
	"tradewinds/internal/tradeerr"
)

// SellEntry is a station's offer to sell an item to the player.
// Units == -1 means unknown stock; Level == -1 means unknown.
type SellEntry struct {
	ItemID int64
	Price  int64
	Units  int64
	Level  int
	AgeS   int64
}

// BuyEntry is a station's offer to buy an item from the player. Same shape
// as SellEntry.
type BuyEntry struct {
	ItemID int64
	Price  int64
	Units  int64
	Level  int
	AgeS   int64
}

// Index holds, per station id, the sorted-by-item-id selling and buying
// lists (spec.md §4.1's "two maps keyed by station id").
type Index struct {
	Selling map[int64][]SellEntry
	Buying  map[int64][]BuyEntry
}

// Options configures Load.
type Options struct {
	// AvoidItems excludes rows whose item id is in this set (spec.md §4.1).
	AvoidItems map[int64]bool
	// MaxAgeDays, when > 0, is applied at source via the store (spec.md
	// §4.1: "WHERE modified >= now - max_age_days is applied at source").
	MaxAgeDays int
}

// Load builds an Index from a store.Store, following the Open Question
// resolution documented in DESIGN.md: max_age_days is a per-row filter,
// applied here at the store layer, not a whole-station exclusion.
func Load(ctx context.Context, s store.Store, opts Options) (*Index, error) {
	idx := &Index{
		Selling: make(map[int64][]SellEntry),
		Buying:  make(map[int64][]BuyEntry),
	}

	sellRows, err := s.StationSellings(ctx, opts.MaxAgeDays)
	if err != nil {
		return nil, fmt.Errorf("load station sellings: %w", err)
	}
	buyRows, err := s.StationBuyings(ctx, opts.MaxAgeDays)
	if err != nil {
		return nil, fmt.Errorf("load station buyings: %w", err)
	}

	now := time.Now().Unix()

	for _, r := range sellRows {
		if opts.AvoidItems[r.ItemID] {
			continue
		}
		if r.Price <= 0 {
			continue // spec.md §3: price_cr == 0 entries are excluded
		}
		age, err := ageSeconds(now, r.Modified)
		if err != nil {
			return nil, &tradeerr.BadTimestamp{
				Table: "StationSelling", StationID: r.StationID,
				ItemID: r.ItemID, Modified: r.Modified,
			}
		}
		idx.Selling[r.StationID] = append(idx.Selling[r.StationID], SellEntry{
			ItemID: r.ItemID, Price: r.Price, Units: r.Units, Level: r.Level, AgeS: age,
		})
	}

	for _, r := range buyRows {
		if opts.AvoidItems[r.ItemID] {
			continue
		}
		if r.Price <= 0 {
			continue
		}
		age, err := ageSeconds(now, r.Modified)
		if err != nil {
			return nil, &tradeerr.BadTimestamp{
				Table: "StationBuying", StationID: r.StationID,
				ItemID: r.ItemID, Modified: r.Modified,
			}
		}
		idx.Buying[r.StationID] = append(idx.Buying[r.StationID], BuyEntry{
			ItemID: r.ItemID, Price: r.Price, Units: r.Units, Level: r.Level, AgeS: age,
		})
	}

	for stn, entries := range idx.Selling {
		sort.Slice(entries, func(i, j int) bool { return entries[i].ItemID < entries[j].ItemID })
		idx.Selling[stn] = entries
	}
	for stn, entries := range idx.Buying {
		sort.Slice(entries, func(i, j int) bool { return entries[i].ItemID < entries[j].ItemID })
		idx.Buying[stn] = entries
	}

	return idx, nil
}

// NewestAge returns the smallest (freshest) AgeS across a station's
// selling+buying rows, or (0, false) if the station has no rows at all.
// Used by the Hop Extender's max_age_days destination filter (spec.md
// §4.5), applying the Open Question resolution at the destination layer
// too: a destination is skipped only if its single newest row is stale.
func (idx *Index) NewestAge(stationID int64) (int64, bool) {
	var best int64
	found := false
	for _, e := range idx.Selling[stationID] {
		if !found || e.AgeS < best {
			best, found = e.AgeS, true
		}
	}
	for _, e := range idx.Buying[stationID] {
		if !found || e.AgeS < best {
			best, found = e.AgeS, true
		}
	}
	return best, found
}

func ageSeconds(now int64, modified string) (int64, error) {
	if modified == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	t, err := time.Parse("2006-01-02 15:04:05", modified)
	if err != nil {
		t, err = time.Parse(time.RFC3339, modified)
		if err != nil {
			return 0, err
		}
	}
	return now - t.Unix(), nil
}
