// Command planroute is a thin demo binary wiring store/sqlite through
// catalog, priceindex, and galaxy into engine.Planner.Plan, matching the
// teacher's flag-based CLI idiom (main.go) but scoped to the offline
// route-planning library: no HTTP server, no SSO, no embedded frontend,
// and no price-file text parsing (that loader is an external collaborator,
// spec.md §1) — only reads from an already-populated SQLite database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"tradewinds/internal/catalog"
	"tradewinds/internal/engine"
	"tradewinds/internal/galaxy"
	"tradewinds/internal/logger"
	"tradewinds/internal/priceindex"
	"tradewinds/internal/store/sqlite"
)

var version = "dev"

func main() {
	dbPath := flag.String("db", "tradewinds.db", "path to the price-data SQLite database")
	origin := flag.String("from", "", "origin station, \"System/Station\" or bare station name")
	destination := flag.String("to", "", "optional goal station; empty searches open-ended")
	capacity := flag.Int64("capacity", 200, "cargo capacity in units")
	credits := flag.Int64("credits", 100000, "starting credits")
	maxHops := flag.Int("hops", 2, "maximum number of trade hops")
	maxJumpsPer := flag.Int("jumps-per-hop", 5, "maximum stargate jumps between two trading stations")
	maxLyPer := flag.Float64("ly-per-jump", 20, "light-years per single jump")
	maxAgeDays := flag.Int("max-age", 0, "exclude price data older than this many days (0 = no limit)")
	detail := flag.Int("detail", 1, "route detail verbosity, 0-3")
	avoidItems := flag.String("avoid-items", "", "comma-separated item names to exclude")
	avoidPlaces := flag.String("avoid-places", "", "comma-separated system/station names to exclude")
	restrictTo := flag.String("restrict-to", "", "comma-separated stations the hop may land on (empty = unrestricted)")
	margin := flag.Float64("margin", 0, "fraction (0-0.25) to discount projected gain when budgeting the next hop")
	insurance := flag.Int64("insurance", 0, "credits held back from the trading budget (0 = default buffer)")
	maxUnits := flag.Int64("max-units", 0, "per-item cargo cap (0 = capacity)")
	padSize := flag.String("pad-size", "", "minimum destination pad size: S, M, or L (empty = unrestricted)")
	maxLs := flag.Float64("max-ls", 0, "max light-seconds from star a destination may sit at (0 = unlimited)")
	blackMarket := flag.Bool("black-market", false, "require destination stations to run a black market")
	lsPenalty := flag.Float64("ls-penalty", 0, "0-1 smooth penalty approximating supercruise time")
	direct := flag.Bool("direct", false, "bypass the jump graph; treat -restrict-to stations as direct destinations")
	flag.Parse()

	logger.Banner(version)

	if *origin == "" {
		logger.Error("planroute", "-from is required")
		os.Exit(1)
	}

	ctx := context.Background()

	logger.Section("Load")
	st, err := sqlite.Open(*dbPath)
	if err != nil {
		logger.Error("planroute", fmt.Sprintf("open database: %v", err))
		os.Exit(1)
	}
	defer st.Close()

	cat, err := catalog.Load(ctx, st)
	if err != nil {
		logger.Error("planroute", fmt.Sprintf("load catalog: %v", err))
		os.Exit(1)
	}
	logger.Stats("systems", len(cat.Systems()))
	logger.Stats("stations", len(cat.Stations()))
	logger.Stats("items", len(cat.Items()))

	idx, err := priceindex.Load(ctx, st, priceindex.Options{MaxAgeDays: *maxAgeDays})
	if err != nil {
		logger.Error("planroute", fmt.Sprintf("load price index: %v", err))
		os.Exit(1)
	}

	gal := galaxy.New(cat)
	planner := engine.NewPlanner(cat, gal, idx)

	cfg := engine.Config{
		Origin:      *origin,
		Destination: *destination,
		Capacity:    *capacity,
		Credits:     *credits,
		MaxHops:     *maxHops,
		MaxJumpsPer: *maxJumpsPer,
		MaxLyPer:    *maxLyPer,
		MaxAgeDays:  *maxAgeDays,
		AvoidItems:  splitCSV(*avoidItems),
		AvoidPlaces: splitCSV(*avoidPlaces),
		RestrictTo:  splitCSV(*restrictTo),
		Margin:      *margin,
		Insurance:   *insurance,
		MaxUnits:    *maxUnits,
		PadSize:     *padSize,
		MaxLs:       *maxLs,
		BlackMarket: *blackMarket,
		LsPenalty:   *lsPenalty,
		Direct:      *direct,
	}

	logger.Section("Plan")
	routes, err := planner.Plan(ctx, cfg, func(msg string) {
		logger.Info("progress", msg)
	})
	if err != nil {
		logger.Error("planroute", err.Error())
		os.Exit(1)
	}
	if len(routes) == 0 {
		logger.Warn("planroute", "no profitable routes found")
		return
	}

	var goalSystem *catalog.System
	if *destination != "" {
		if goal, err := cat.LookupStation(*destination); err == nil {
			goalSystem = goal.System
		}
	}

	logger.Section("Results")
	top := routes
	if len(top) > 5 {
		top = top[:5]
	}
	for i, r := range top {
		fmt.Printf("\n#%d\n%s\n", i+1, r.Detail(*detail, goalSystem, cfg.EffectiveInsurance()))
	}
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
