package engine

import (
	"context"
	"strings"
	"testing"

	"tradewinds/internal/catalog"
	"tradewinds/internal/fit"
	"tradewinds/internal/store"
	"tradewinds/internal/trade"
)

type fakeStore struct {
	systems  []store.SystemRow
	stations []store.StationRow
}

func (f *fakeStore) Systems(ctx context.Context) ([]store.SystemRow, error) { return f.systems, nil }
func (f *fakeStore) Stations(ctx context.Context) ([]store.StationRow, error) {
	return f.stations, nil
}
func (f *fakeStore) Items(ctx context.Context) ([]store.ItemRow, error) { return nil, nil }
func (f *fakeStore) Ships(ctx context.Context) ([]store.ShipRow, error) { return nil, nil }
func (f *fakeStore) StationSellings(ctx context.Context, maxAgeDays int) ([]store.PriceRow, error) {
	return nil, nil
}
func (f *fakeStore) StationBuyings(ctx context.Context, maxAgeDays int) ([]store.PriceRow, error) {
	return nil, nil
}

func buildTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	fs := &fakeStore{
		systems: []store.SystemRow{
			{ID: 1, Name: "Sol"},
			{ID: 2, Name: "Alpha"},
		},
		stations: []store.StationRow{
			{ID: 10, SystemID: 1, Name: "Dock"},
			{ID: 20, SystemID: 2, Name: "Outpost"},
		},
	}
	c, err := catalog.Load(context.Background(), fs)
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return c
}

func TestRoute_PlusAppendsHopAndAccumulatesTotals(t *testing.T) {
	c := buildTestCatalog(t)
	from, _ := c.LookupStation("Sol/Dock")
	to, _ := c.LookupStation("Alpha/Outpost")

	load := fit.TradeLoad{Gain: 500, Cost: 1000, Units: 10}
	hop := Hop{From: from, To: to, Jumps: 2, Ly: 12.5, Load: load}

	r := Route{}.plus(hop)
	if r.Gain != 500 || r.Jumps != 2 || r.Ly != 12.5 {
		t.Fatalf("unexpected totals after plus: %+v", r)
	}
	if r.origin() != from || r.destination() != to {
		t.Fatalf("unexpected origin/destination: %+v", r)
	}

	r2 := r.plus(Hop{From: to, To: from, Jumps: 1, Ly: 12.5, Load: fit.TradeLoad{Gain: 300}})
	if r2.Gain != 800 || r2.Jumps != 3 {
		t.Fatalf("unexpected totals after second plus: %+v", r2)
	}
	if len(r.Hops) != 1 {
		t.Fatalf("expected original route unmutated, got %d hops", len(r.Hops))
	}
}

func TestRoute_VisitsDetectsOriginAndHops(t *testing.T) {
	c := buildTestCatalog(t)
	from, _ := c.LookupStation("Sol/Dock")
	to, _ := c.LookupStation("Alpha/Outpost")
	r := Route{}.plus(Hop{From: from, To: to, Load: fit.TradeLoad{}})

	if !r.visits(from) || !r.visits(to) {
		t.Fatal("expected route to report visiting both endpoints")
	}
	other := &catalog.Station{ID: 99}
	if r.visits(other) {
		t.Fatal("expected route to not report visiting an unrelated station")
	}
}

func TestRoute_GainPerJump(t *testing.T) {
	r := Route{Gain: 1000, Jumps: 4}
	if got := r.gainPerJump(); got != 250 {
		t.Fatalf("expected 250 gain/jump, got %v", got)
	}
	if (Route{}).gainPerJump() != 0 {
		t.Fatal("expected zero-jump route to score zero, not divide by zero")
	}
}

func TestRoute_DetailVerbosityTiers(t *testing.T) {
	c := buildTestCatalog(t)
	from, _ := c.LookupStation("Sol/Dock")
	to, _ := c.LookupStation("Alpha/Outpost")
	load := fit.TradeLoad{
		Gain: 500, Cost: 1000, Units: 10,
		Items: []fit.Item{{Trade: trade.Trade{ItemID: 7, CostCr: 100, GainCr: 50}, Units: 10}},
	}
	r := Route{StartCr: 5000}.plus(Hop{From: from, To: to, Jumps: 2, Ly: 5, Load: load})

	d0 := r.Detail(0, nil, 42)
	if !strings.Contains(d0, "Sol/Dock") || strings.Contains(d0, "item#7") {
		t.Fatalf("level 0 detail should omit item lines: %q", d0)
	}
	d3 := r.Detail(3, nil, 42)
	if !strings.Contains(d3, "item#7") || !strings.Contains(d3, "gain") {
		t.Fatalf("level 3 detail should include per-unit breakdown: %q", d3)
	}
	if !strings.Contains(d3, Summary(42)) {
		t.Fatalf("expected the caller-supplied insurance value rendered, got %q", d3)
	}

	goal := to.System
	dGoal := r.Detail(0, goal, 42)
	if !strings.Contains(dGoal, "goal Alpha") {
		t.Fatalf("expected a goal line when goalSystem is set: %q", dGoal)
	}
}

func TestRoute_SummaryReportsHeadlineFigures(t *testing.T) {
	c := buildTestCatalog(t)
	from, _ := c.LookupStation("Sol/Dock")
	to, _ := c.LookupStation("Alpha/Outpost")
	r := Route{StartCr: 1000}.plus(Hop{From: from, To: to, Jumps: 1, Ly: 5, Load: fit.TradeLoad{Gain: 500}})

	summary := r.Summary()
	if !strings.Contains(summary, "Start CR: "+Summary(1000)) {
		t.Fatalf("expected start credits in summary: %q", summary)
	}
	if !strings.Contains(summary, "Final CR: "+Summary(1500)) {
		t.Fatalf("expected final credits in summary: %q", summary)
	}
	if !strings.Contains(summary, "Gain/Hop: "+Summary(500)) {
		t.Fatalf("expected gain per hop in summary: %q", summary)
	}
}

func TestSummary_FormatsWithThousandsSeparator(t *testing.T) {
	if got := Summary(1234567); got != "1,234,567cr" {
		t.Fatalf("unexpected summary format: %q", got)
	}
}
