package engine

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"tradewinds/internal/catalog"
	"tradewinds/internal/fit"
)

// Hop is one trade leg of a Route: a jump from one station to another,
// carrying a fitted TradeLoad. Score is the hop's gain after the goal-
// direction multiplier (original_source/tradecalc.py's getBestHops bias);
// it guides beam pruning only and never appears in credit totals.
type Hop struct {
	From  *catalog.Station
	To    *catalog.Station
	Jumps int
	Ly    float64
	Load  fit.TradeLoad
	Score float64
}

// Route is an ordered sequence of Hops plus running totals, mirroring
// original_source/tradecalc.py's Route class. Score accumulates each hop's
// goal-biased Score and is used only to rank candidates during the beam
// search; Gain is the true, unscaled credit total shown to the caller.
// StartCr is the credits the route began with, carried along so Summary
// can report the final balance.
type Route struct {
	Hops    []Hop
	Gain    int64
	Jumps   int
	Ly      float64
	Score   float64
	StartCr int64
}

// plus returns a new Route with hop appended and totals updated. Never
// mutates r, matching tradecalc.py's Route.plus (routes are forked during
// beam search, not mutated in place).
func (r Route) plus(hop Hop) Route {
	hops := make([]Hop, len(r.Hops), len(r.Hops)+1)
	copy(hops, r.Hops)
	hops = append(hops, hop)
	return Route{
		Hops:    hops,
		Gain:    r.Gain + hop.Load.Gain,
		Jumps:   r.Jumps + hop.Jumps,
		Ly:      r.Ly + hop.Ly,
		Score:   r.Score + hop.Score,
		StartCr: r.StartCr,
	}
}

// origin returns the route's starting station, or nil for an empty route.
func (r Route) origin() *catalog.Station {
	if len(r.Hops) == 0 {
		return nil
	}
	return r.Hops[0].From
}

// destination returns the route's final station, or nil for an empty route.
func (r Route) destination() *catalog.Station {
	if len(r.Hops) == 0 {
		return nil
	}
	return r.Hops[len(r.Hops)-1].To
}

// visits reports whether station appears anywhere along the route
// (including its origin), used to enforce Config.Unique.
func (r Route) visits(station *catalog.Station) bool {
	if len(r.Hops) > 0 && r.Hops[0].From == station {
		return true
	}
	for _, h := range r.Hops {
		if h.To == station {
			return true
		}
	}
	return false
}

// gainPerJump is total credit gain divided by total jumps (0 for a route
// with no jumps). Plan and prune do not rank routes by it.
func (r Route) gainPerJump() float64 {
	if r.Jumps == 0 {
		return 0
	}
	return float64(r.Gain) / float64(r.Jumps)
}

// Detail renders the route at one of four verbosity tiers, matching
// original_source/tradecalc.py's Route.detail(tdenv, goal_system, insurance)
// levels:
//
//	0: headline line with final totals only
//	1: + one line per hop (route + credits)
//	2: + items carried per hop
//	3: + per-unit cost/gain breakdown per item
//
// goalSystem, when non-nil, adds a line reporting the final station's
// remaining distance to the goal. insurance is the credit buffer the
// caller held back from the trading budget (Config.EffectiveInsurance),
// reported on the last line rather than an internal constant. The goal and
// insurance lines are printed at every level, including 0.
func (r Route) Detail(level int, goalSystem *catalog.System, insurance int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s -> %s: %s profit over %d jump(s), %.2fly\n",
		stationName(r.origin()), stationName(r.destination()), Summary(r.Gain), r.Jumps, r.Ly)
	if level >= 1 {
		for i, h := range r.Hops {
			fmt.Fprintf(&b, "  %d. %s -> %s (%d jump(s), %.2fly): %s\n",
				i+1, stationName(h.From), stationName(h.To), h.Jumps, h.Ly, Summary(h.Load.Gain))
			if level < 2 {
				continue
			}
			for _, item := range h.Load.Items {
				if level < 3 {
					fmt.Fprintf(&b, "       %d x item#%d\n", item.Units, item.Trade.ItemID)
					continue
				}
				fmt.Fprintf(&b, "       %d x item#%d @ %s/unit, gain %s/unit\n",
					item.Units, item.Trade.ItemID, Summary(item.Trade.CostCr), Summary(item.Trade.GainCr))
			}
		}
	}
	if goalSystem != nil {
		if dst := r.destination(); dst != nil {
			fmt.Fprintf(&b, "  goal %s: %.2fly remaining\n", goalSystem.Name, dst.System.DistanceTo(goalSystem))
		}
	}
	fmt.Fprintf(&b, "  insurance buffer held back: %s\n", Summary(insurance))
	return strings.TrimRight(b.String(), "\n")
}

// Summary renders the route's headline figures, matching
// original_source/tradecalc.py's Route.summary(): starting credits, hop and
// jump counts, total gain, gain per hop, and the credits on hand once the
// route completes.
func (r Route) Summary() string {
	var b strings.Builder
	gainPerHop := int64(0)
	if len(r.Hops) > 0 {
		gainPerHop = r.Gain / int64(len(r.Hops))
	}
	fmt.Fprintf(&b, "Start CR: %s\n", Summary(r.StartCr))
	fmt.Fprintf(&b, "Hops: %d\n", len(r.Hops))
	fmt.Fprintf(&b, "Jumps: %d\n", r.Jumps)
	fmt.Fprintf(&b, "Gain CR: %s\n", Summary(r.Gain))
	fmt.Fprintf(&b, "Gain/Hop: %s\n", Summary(gainPerHop))
	fmt.Fprintf(&b, "Final CR: %s\n", Summary(r.StartCr+r.Gain))
	return strings.TrimRight(b.String(), "\n")
}

// Summary formats a credit amount with thousands separators, the Go
// analogue of Python's locale-aware "{:n}".format used throughout
// original_source/tradecalc.py's route summaries.
func Summary(creditsCr int64) string {
	return humanize.Comma(creditsCr) + "cr"
}

func stationName(s *catalog.Station) string {
	if s == nil {
		return "?"
	}
	return s.FullName()
}
