package trade

import (
	"context"
	"testing"

	"tradewinds/internal/priceindex"
)

func TestJoin_SortsByGainDescThenCostAsc(t *testing.T) {
	sell := []priceindex.SellEntry{
		{ItemID: 1, Price: 100},
		{ItemID: 2, Price: 50},
		{ItemID: 3, Price: 10},
	}
	buy := []priceindex.BuyEntry{
		{ItemID: 1, Price: 120}, // gain 20
		{ItemID: 2, Price: 150}, // gain 100
		{ItemID: 3, Price: 5},   // negative gain, excluded
	}
	trades := Join(sell, buy)
	if len(trades) != 2 {
		t.Fatalf("expected 2 profitable trades, got %d: %+v", len(trades), trades)
	}
	if trades[0].ItemID != 2 || trades[0].GainCr != 100 {
		t.Fatalf("expected item 2 first (highest gain), got %+v", trades[0])
	}
	if trades[1].ItemID != 1 || trades[1].GainCr != 20 {
		t.Fatalf("expected item 1 second, got %+v", trades[1])
	}
}

func TestJoin_NoOverlapNoTrades(t *testing.T) {
	sell := []priceindex.SellEntry{{ItemID: 1, Price: 100}}
	buy := []priceindex.BuyEntry{{ItemID: 2, Price: 200}}
	if trades := Join(sell, buy); len(trades) != 0 {
		t.Fatalf("expected no trades, got %+v", trades)
	}
}

func TestCache_MemoizesAndDeduplicates(t *testing.T) {
	idx := &priceindex.Index{
		Selling: map[int64][]priceindex.SellEntry{1: {{ItemID: 1, Price: 100}}},
		Buying:  map[int64][]priceindex.BuyEntry{2: {{ItemID: 1, Price: 150}}},
	}
	cache := NewCache(idx)

	ctx := context.Background()
	t1, err := cache.Trades(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Trades: %v", err)
	}
	if len(t1) != 1 || t1[0].GainCr != 50 {
		t.Fatalf("expected one trade with gain 50, got %+v", t1)
	}

	t2, err := cache.Trades(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Trades (cached): %v", err)
	}
	if len(t2) != 1 || t2[0].GainCr != 50 {
		t.Fatalf("expected cached result identical, got %+v", t2)
	}
}

func TestCache_UnknownPairReturnsEmpty(t *testing.T) {
	idx := &priceindex.Index{
		Selling: map[int64][]priceindex.SellEntry{},
		Buying:  map[int64][]priceindex.BuyEntry{},
	}
	cache := NewCache(idx)
	trades, err := cache.Trades(context.Background(), 99, 100)
	if err != nil {
		t.Fatalf("Trades: %v", err)
	}
	if len(trades) != 0 {
		t.Fatalf("expected no trades for unknown pair, got %+v", trades)
	}
}
