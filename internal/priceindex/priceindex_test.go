package priceindex

import (
	"context"
	"testing"

	"tradewinds/internal/store"
)

type fakeStore struct {
	sell []store.PriceRow
	buy  []store.PriceRow
}

func (f *fakeStore) Systems(ctx context.Context) ([]store.SystemRow, error) { return nil, nil }
func (f *fakeStore) Stations(ctx context.Context) ([]store.StationRow, error) {
	return nil, nil
}
func (f *fakeStore) Items(ctx context.Context) ([]store.ItemRow, error) { return nil, nil }
func (f *fakeStore) Ships(ctx context.Context) ([]store.ShipRow, error) { return nil, nil }
func (f *fakeStore) StationSellings(ctx context.Context, maxAgeDays int) ([]store.PriceRow, error) {
	return f.sell, nil
}
func (f *fakeStore) StationBuyings(ctx context.Context, maxAgeDays int) ([]store.PriceRow, error) {
	return f.buy, nil
}

func TestLoad_SortsByItemIDAndComputesAge(t *testing.T) {
	fs := &fakeStore{
		sell: []store.PriceRow{
			{StationID: 1, ItemID: 30, Price: 100, Units: 500, Level: 2, Modified: "2026-07-30 12:00:00"},
			{StationID: 1, ItemID: 10, Price: 50, Units: 100, Level: 1, Modified: "2026-07-30 12:00:00"},
		},
	}
	idx, err := Load(context.Background(), fs, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	entries := idx.Selling[1]
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ItemID != 10 || entries[1].ItemID != 30 {
		t.Fatalf("expected entries sorted by item id, got %+v", entries)
	}
	if entries[0].AgeS < 0 {
		t.Fatalf("expected non-negative age, got %d", entries[0].AgeS)
	}
}

func TestLoad_ExcludesZeroPriceAndAvoidedItems(t *testing.T) {
	fs := &fakeStore{
		sell: []store.PriceRow{
			{StationID: 1, ItemID: 10, Price: 0, Modified: "2026-07-30 12:00:00"},
			{StationID: 1, ItemID: 20, Price: 50, Modified: "2026-07-30 12:00:00"},
		},
	}
	idx, err := Load(context.Background(), fs, Options{AvoidItems: map[int64]bool{20: true}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(idx.Selling[1]) != 0 {
		t.Fatalf("expected all entries filtered out, got %+v", idx.Selling[1])
	}
}

func TestLoad_BadTimestampError(t *testing.T) {
	fs := &fakeStore{
		sell: []store.PriceRow{
			{StationID: 1, ItemID: 10, Price: 50, Modified: "not-a-date"},
		},
	}
	_, err := Load(context.Background(), fs, Options{})
	if err == nil {
		t.Fatal("expected error for unparseable timestamp")
	}
}

func TestNewestAge_ReturnsFreshest(t *testing.T) {
	idx := &Index{
		Selling: map[int64][]SellEntry{1: {{ItemID: 1, AgeS: 500}, {ItemID: 2, AgeS: 50}}},
		Buying:  map[int64][]BuyEntry{1: {{ItemID: 3, AgeS: 900}}},
	}
	age, ok := idx.NewestAge(1)
	if !ok || age != 50 {
		t.Fatalf("expected freshest age 50, got %d (ok=%v)", age, ok)
	}
	if _, ok := idx.NewestAge(99); ok {
		t.Fatal("expected no data for unknown station")
	}
}
