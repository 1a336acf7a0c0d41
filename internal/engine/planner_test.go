package engine

import (
	"context"
	"testing"

	"tradewinds/internal/catalog"
	"tradewinds/internal/galaxy"
	"tradewinds/internal/priceindex"
	"tradewinds/internal/store"
)

type planStore struct {
	systems  []store.SystemRow
	stations []store.StationRow
	items    []store.ItemRow
	sell     []store.PriceRow
	buy      []store.PriceRow
}

func (f *planStore) Systems(ctx context.Context) ([]store.SystemRow, error)   { return f.systems, nil }
func (f *planStore) Stations(ctx context.Context) ([]store.StationRow, error) { return f.stations, nil }
func (f *planStore) Items(ctx context.Context) ([]store.ItemRow, error)       { return f.items, nil }
func (f *planStore) Ships(ctx context.Context) ([]store.ShipRow, error)       { return nil, nil }
func (f *planStore) StationSellings(ctx context.Context, maxAgeDays int) ([]store.PriceRow, error) {
	return f.sell, nil
}
func (f *planStore) StationBuyings(ctx context.Context, maxAgeDays int) ([]store.PriceRow, error) {
	return f.buy, nil
}

// buildTwoHopWorld builds Sol/Dock -(5ly)- Alpha/Outpost -(5ly)- Beta/Market,
// each leg profitable on a single item, so a 2-hop plan should chain both.
func buildTwoHopWorld(t *testing.T) (*catalog.Catalog, *galaxy.Galaxy, *priceindex.Index) {
	t.Helper()
	fs := &planStore{
		systems: []store.SystemRow{
			{ID: 1, Name: "Sol", X: 0},
			{ID: 2, Name: "Alpha", X: 5},
			{ID: 3, Name: "Beta", X: 10},
		},
		stations: []store.StationRow{
			{ID: 10, SystemID: 1, Name: "Dock", ItemCount: 1},
			{ID: 20, SystemID: 2, Name: "Outpost", ItemCount: 1},
			{ID: 30, SystemID: 3, Name: "Market", ItemCount: 1},
		},
		items: []store.ItemRow{{ID: 1, Name: "Widgets"}, {ID: 2, Name: "Gadgets"}},
		sell: []store.PriceRow{
			{StationID: 10, ItemID: 1, Price: 100, Units: 50, Modified: "2026-07-30 00:00:00"},
			{StationID: 20, ItemID: 2, Price: 50, Units: 50, Modified: "2026-07-30 00:00:00"},
		},
		buy: []store.PriceRow{
			{StationID: 20, ItemID: 1, Price: 200, Units: 50, Modified: "2026-07-30 00:00:00"},
			{StationID: 30, ItemID: 2, Price: 150, Units: 50, Modified: "2026-07-30 00:00:00"},
		},
	}
	c, err := catalog.Load(context.Background(), fs)
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	idx, err := priceindex.Load(context.Background(), fs, priceindex.Options{})
	if err != nil {
		t.Fatalf("priceindex.Load: %v", err)
	}
	return c, galaxy.New(c), idx
}

func TestPlanner_Plan_FindsProfitableSingleHop(t *testing.T) {
	c, g, idx := buildTwoHopWorld(t)
	p := NewPlanner(c, g, idx)
	cfg := Config{Origin: "Sol/Dock", Capacity: 50, Credits: 10000, MaxHops: 1, MaxLyPer: 6, MaxJumpsPer: 1}

	routes, err := p.Plan(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(routes) == 0 {
		t.Fatal("expected at least one route")
	}
	if routes[0].Gain <= 0 {
		t.Fatalf("expected positive gain, got %+v", routes[0])
	}
}

func TestPlanner_Plan_ChainsTwoHops(t *testing.T) {
	c, g, idx := buildTwoHopWorld(t)
	p := NewPlanner(c, g, idx)
	cfg := Config{Origin: "Sol/Dock", Capacity: 50, Credits: 10000, MaxHops: 2, MaxLyPer: 6, MaxJumpsPer: 1}

	routes, err := p.Plan(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	var twoHop *Route
	for i := range routes {
		if len(routes[i].Hops) == 2 {
			twoHop = &routes[i]
			break
		}
	}
	if twoHop == nil {
		t.Fatalf("expected a 2-hop route among %d routes", len(routes))
	}
	if twoHop.destination().FullName() != "Beta/Market" {
		t.Fatalf("expected route to end at Beta/Market, got %s", twoHop.destination().FullName())
	}
}

func TestPlanner_Plan_NoHopsWhenNothingReachable(t *testing.T) {
	c, g, idx := buildTwoHopWorld(t)
	p := NewPlanner(c, g, idx)
	cfg := Config{Origin: "Sol/Dock", Capacity: 50, Credits: 10000, MaxHops: 1, MaxLyPer: 1, MaxJumpsPer: 1}

	_, err := p.Plan(context.Background(), cfg, nil)
	if err == nil {
		t.Fatal("expected NoHops error when nothing is in range")
	}
}

func TestPlanner_Plan_RejectsUnknownOrigin(t *testing.T) {
	c, g, idx := buildTwoHopWorld(t)
	p := NewPlanner(c, g, idx)
	cfg := Config{Origin: "Nowhere/Station", Capacity: 50, Credits: 10000, MaxHops: 1, MaxLyPer: 6, MaxJumpsPer: 1}

	if _, err := p.Plan(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown origin station")
	}
}

func TestPlanner_Plan_IsIdempotent(t *testing.T) {
	c, g, idx := buildTwoHopWorld(t)
	p := NewPlanner(c, g, idx)
	cfg := Config{Origin: "Sol/Dock", Capacity: 50, Credits: 10000, MaxHops: 2, MaxLyPer: 6, MaxJumpsPer: 1}

	r1, err := p.Plan(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	r2, err := p.Plan(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Plan (second call): %v", err)
	}
	if len(r1) != len(r2) {
		t.Fatalf("expected repeated Plan() calls to agree on route count: %d vs %d", len(r1), len(r2))
	}
	if r1[0].Gain != r2[0].Gain {
		t.Fatalf("expected repeated Plan() calls to agree on best gain: %d vs %d", r1[0].Gain, r2[0].Gain)
	}
}
