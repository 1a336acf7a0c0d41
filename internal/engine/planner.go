package engine

import (
	"context"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"tradewinds/internal/catalog"
	"tradewinds/internal/fit"
	"tradewinds/internal/galaxy"
	"tradewinds/internal/priceindex"
	"tradewinds/internal/trade"
	"tradewinds/internal/tradeerr"
)

const (
	// beamWidth bounds how many candidate routes survive each hop,
	// grounded on the teacher's FindRoutes beamWidth=50 constant
	// (internal/engine/route.go).
	beamWidth = 50
	// routeWorkers bounds concurrent destination expansion per hop,
	// grounded on the teacher's sem := make(chan struct{}, 4) pattern.
	routeWorkers = 4
	// goalMultiplierAtGoal strongly favors a hop that lands in the goal
	// system, matching original_source/tradecalc.py's 10**11 bias.
	goalMultiplierAtGoal = 1e11
	// goalMultiplierRetreat discounts a hop that moves back toward the
	// route's origin rather than the goal, matching tradecalc.py's 0.6
	// factor.
	goalMultiplierRetreat = 0.6
)

// avoidSet distinguishes avoided systems (whole-system exclusion) from
// avoided stations (exclude only that station), spec.md invariant 5 — a
// single station entered into avoid_places must not exclude its siblings.
type avoidSet struct {
	systems  map[int64]bool
	stations map[int64]bool
}

func (a avoidSet) excludes(s *catalog.Station) bool {
	return a.stations[s.ID] || a.systems[s.System.ID]
}

// candidate is a route-in-progress paired with the station it currently
// sits at (Route itself carries no notion of "current position" once it
// has zero hops).
type candidate struct {
	route Route
	at    *catalog.Station
}

// Planner ties the catalog, galaxy, and price index together into the
// multi-hop beam search (spec.md's C6/C7), grounded on the teacher's
// FindRoutes (internal/engine/route.go) and original_source/tradecalc.py's
// getBestHops.
type Planner struct {
	catalog *catalog.Catalog
	galaxy  *galaxy.Galaxy
	idx     *priceindex.Index
}

// NewPlanner builds a Planner over a catalog, galaxy, and price index that
// were loaded once at program startup (spec.md §5).
func NewPlanner(cat *catalog.Catalog, gal *galaxy.Galaxy, idx *priceindex.Index) *Planner {
	return &Planner{catalog: cat, galaxy: gal, idx: idx}
}

// Plan searches up to cfg.MaxHops trade legs from cfg.Origin and returns
// the best routes found, sorted by total gain descending. progress, when
// non-nil, receives a human-readable line after each hop.
func (p *Planner) Plan(ctx context.Context, cfg Config, progress func(string)) ([]Route, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Unique && cfg.MaxHops >= len(p.catalog.Stations()) {
		return nil, &tradeerr.InvalidConfig{Reason: "unique route needs more stations than hops"}
	}

	reqID := uuid.New().String()[:8]
	report := func(msg string) {
		if progress != nil {
			progress("[" + reqID + "] " + msg)
		}
	}

	origin, err := p.catalog.LookupStation(cfg.Origin)
	if err != nil {
		return nil, err
	}
	if origin.ItemCount == 0 {
		return nil, &tradeerr.NoData{StationName: origin.FullName(), Reason: "no price data at origin"}
	}

	var goal *catalog.Station
	if cfg.Destination != "" {
		goal, err = p.catalog.LookupStation(cfg.Destination)
		if err != nil {
			return nil, err
		}
	}

	avoidItems, err := p.resolveAvoidItems(cfg.AvoidItems)
	if err != nil {
		return nil, err
	}
	avoid, err := p.resolveAvoidPlaces(cfg.AvoidPlaces)
	if err != nil {
		return nil, err
	}
	viaStations, err := p.resolveStations(cfg.ViaStations)
	if err != nil {
		return nil, err
	}
	restrictTo, err := p.resolveStations(cfg.RestrictTo)
	if err != nil {
		return nil, err
	}
	restrictToSet := make(map[int64]bool, len(restrictTo))
	for _, s := range restrictTo {
		restrictToSet[s.ID] = true
	}

	cache := trade.NewCache(p.idx)
	frontier := []candidate{{route: Route{StartCr: cfg.Credits}, at: origin}}
	var completed []candidate

	for hop := 1; hop <= cfg.MaxHops; hop++ {
		next := p.extend(ctx, frontier, cfg, origin.System, goal, avoidItems, avoid, restrictTo, restrictToSet, cache)
		if len(next) == 0 {
			if hop == 1 {
				return nil, &tradeerr.NoHops{Reason: "no destinations reachable within constraints"}
			}
			break
		}
		completed = append(completed, next...)
		frontier = prune(next, beamWidth)
		report(hopSummary(hop, frontier))
	}

	routes := make([]Route, 0, len(completed))
	for _, c := range completed {
		if goal != nil && c.at != goal {
			continue
		}
		if !containsAll(c.route, viaStations) {
			continue
		}
		routes = append(routes, c.route)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Gain > routes[j].Gain })
	if len(routes) > beamWidth {
		routes = routes[:beamWidth]
	}
	return routes, nil
}

// extend fans a frontier of candidates out by one trade hop each,
// concurrently, bounded by routeWorkers — the teacher's goroutine +
// semaphore + mutex concurrency shape (internal/engine/route.go).
func (p *Planner) extend(
	ctx context.Context,
	frontier []candidate,
	cfg Config,
	originSystem *catalog.System,
	goal *catalog.Station,
	avoidItems map[int64]bool,
	avoid avoidSet,
	restrictTo []*catalog.Station,
	restrictToSet map[int64]bool,
	cache *trade.Cache,
) []candidate {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		sem     = make(chan struct{}, routeWorkers)
		results []candidate
	)

	for _, c := range frontier {
		wg.Add(1)
		go func(c candidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			found := p.extendOne(ctx, c, cfg, originSystem, goal, avoidItems, avoid, restrictTo, restrictToSet, cache)
			if len(found) == 0 {
				return
			}
			mu.Lock()
			results = append(results, found...)
			mu.Unlock()
		}(c)
	}
	wg.Wait()
	return results
}

// reachable is one system reachable from c.at, paired with the stations in
// it that already satisfy the pad-size/ls/black-market filters.
type reachable struct {
	system   *catalog.System
	distance float64
	stations []*catalog.Station
}

// extendOne considers every station reachable from c.at within
// cfg.MaxJumpsPer jumps and cfg.MaxLyPer range (plus c.at's own system at
// zero jumps), fitting the best cargo load for each candidate destination.
// In Direct mode (spec.md §4.5's "direct"), the jump-graph BFS is bypassed
// entirely and every RestrictTo station is considered a direct destination
// at straight-line distance.
func (p *Planner) extendOne(
	ctx context.Context,
	c candidate,
	cfg Config,
	originSystem *catalog.System,
	goal *catalog.Station,
	avoidItems map[int64]bool,
	avoid avoidSet,
	restrictTo []*catalog.Station,
	restrictToSet map[int64]bool,
	cache *trade.Cache,
) []candidate {
	var reachables []reachable
	if cfg.Direct {
		for _, stn := range restrictTo {
			if stn == c.at {
				continue
			}
			reachables = append(reachables, reachable{
				system: stn.System, distance: c.at.System.DistanceTo(stn.System),
				stations: []*catalog.Station{stn},
			})
		}
	} else {
		reachables = append(reachables, reachable{
			system: c.at.System, distance: 0,
			stations: galaxy.QualifyingStations(c.at.System, cfg.PadSize, cfg.MaxLs, cfg.BlackMarket),
		})
		for _, d := range p.galaxy.Destinations(c.at.System, galaxy.DestinationOptions{
			MaxJumps: cfg.MaxJumpsPer, MaxLyPer: cfg.MaxLyPer, Avoid: avoid.systems,
			PadSize: cfg.PadSize, MaxLs: cfg.MaxLs, BlackMarket: cfg.BlackMarket,
		}) {
			reachables = append(reachables, reachable{system: d.System, distance: d.CumulativeLy, stations: d.Stations})
		}
	}

	// budget = credits - insurance + floor(route.gain_cr * (1 - margin)),
	// spec.md §4.5 step (a).
	discountedGain := int64(math.Floor(float64(c.route.Gain) * (1 - cfg.Margin)))
	available := cfg.Credits - cfg.EffectiveInsurance() + discountedGain

	var out []candidate
	for _, r := range reachables {
		for _, dst := range r.stations {
			if dst == c.at {
				continue
			}
			if cfg.Unique && c.route.visits(dst) {
				continue
			}
			if avoid.excludes(dst) {
				continue
			}
			if len(restrictToSet) > 0 && !restrictToSet[dst.ID] {
				continue
			}
			if cfg.MaxAgeDays > 0 {
				if age, ok := p.idx.NewestAge(dst.ID); !ok || age > int64(cfg.MaxAgeDays)*86400 {
					continue
				}
			}
			trades, err := cache.Trades(ctx, c.at.ID, dst.ID)
			if err != nil || len(trades) == 0 {
				continue
			}
			trades = filterAvoided(trades, avoidItems)
			if len(trades) == 0 {
				continue
			}
			mult, ok := goalMultiplier(c.at.System, dst.System, originSystem, goal)
			if !ok {
				continue
			}
			load := fit.FastFit(trades, available, cfg.Capacity, cfg.effectiveMaxUnits())
			if load.Units == 0 {
				continue
			}
			jumps := 0
			if r.system != c.at.System {
				jumps = 1
			}
			score := float64(load.Gain) * mult * lsMultiplier(dst, cfg.LsPenalty)
			hop := Hop{
				From: c.at, To: dst, Jumps: jumps, Ly: r.distance,
				Load: load, Score: score,
			}
			out = append(out, candidate{route: c.route.plus(hop), at: dst})
		}
	}
	return out
}

// lsMultiplier is tradecalc.py's getBestHops smooth ls-penalty curve:
// ls_multiplier = 1 - ls_penalty * ((kls^2 - kls) / 3), kls = floor(ls_from_star/100)/10.
// With ls_penalty == 0 (the default) this is always 1.
func lsMultiplier(dst *catalog.Station, lsPenalty float64) float64 {
	if lsPenalty == 0 {
		return 1
	}
	kls := math.Floor(dst.LsFromStar/100) / 10
	return 1 - lsPenalty*((kls*kls-kls)/3)
}

// goalMultiplier scores a hop relative to an optional goal station,
// matching original_source/tradecalc.py's getBestHops bias: landing in the
// goal system wins outright; moving strictly closer to the goal is
// rewarded in proportion to how much closer; failing that, moving back
// toward the route's origin is discounted rather than excluded (a route
// may still need to backtrack); any other hop is skipped entirely (the ok
// return is false).
func goalMultiplier(from, to, origin *catalog.System, goal *catalog.Station) (mult float64, ok bool) {
	if goal == nil {
		return 1, true
	}
	if to == goal.System {
		return goalMultiplierAtGoal, true
	}
	fromGoalDist := from.DistanceTo(goal.System)
	toGoalDist := to.DistanceTo(goal.System)
	if toGoalDist < fromGoalDist {
		return 1 + fromGoalDist/toGoalDist, true
	}
	fromOriginDist := from.DistanceTo(origin)
	toOriginDist := to.DistanceTo(origin)
	if toOriginDist < fromOriginDist {
		return goalMultiplierRetreat, true
	}
	return 0, false
}

func (p *Planner) resolveAvoidItems(names []string) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, name := range names {
		it, err := p.catalog.LookupItem(name)
		if err != nil {
			return nil, err
		}
		out[it.ID] = true
	}
	return out, nil
}

// resolveAvoidPlaces resolves each name to either a whole system (excludes
// every station within it) or a single station (excludes only that
// station), keeping the two exclusion sets separate so avoiding one
// station never excludes its siblings.
func (p *Planner) resolveAvoidPlaces(names []string) (avoidSet, error) {
	out := avoidSet{systems: map[int64]bool{}, stations: map[int64]bool{}}
	for _, name := range names {
		if sys, err := p.catalog.LookupSystem(name); err == nil {
			out.systems[sys.ID] = true
			continue
		}
		if stn, err := p.catalog.LookupStation(name); err == nil {
			out.stations[stn.ID] = true
			continue
		}
		return avoidSet{}, &tradeerr.NotFound{Kind: "place", Name: name}
	}
	return out, nil
}

func (p *Planner) resolveStations(names []string) ([]*catalog.Station, error) {
	var out []*catalog.Station
	for _, name := range names {
		stn, err := p.catalog.LookupStation(name)
		if err != nil {
			return nil, err
		}
		out = append(out, stn)
	}
	return out, nil
}

func filterAvoided(trades []trade.Trade, avoid map[int64]bool) []trade.Trade {
	if len(avoid) == 0 {
		return trades
	}
	out := trades[:0:0]
	for _, t := range trades {
		if !avoid[t.ItemID] {
			out = append(out, t)
		}
	}
	return out
}

// prune keeps, per destination station, only the single best route
// reaching it (tradecalc.py's bestToDest dict), then caps the survivors at
// width, sorted by descending score. Ties are broken deterministically:
// shorter dest.dist_ly on the deciding hop wins (spec.md §4.5's
// prune-by-destination tie-break), then ascending station id.
func prune(cands []candidate, width int) []candidate {
	bestToDest := make(map[int64]candidate, len(cands))
	for _, c := range cands {
		existing, ok := bestToDest[c.at.ID]
		if !ok || better(c, existing) {
			bestToDest[c.at.ID] = c
		}
	}
	out := make([]candidate, 0, len(bestToDest))
	for _, c := range bestToDest {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return better(out[i], out[j]) })
	if len(out) > width {
		out = out[:width]
	}
	return out
}

// better reports whether c should replace existing as the best candidate
// reaching the same destination station.
func better(c, existing candidate) bool {
	if c.route.Score != existing.route.Score {
		return c.route.Score > existing.route.Score
	}
	cLy, eLy := lastHopLy(c.route), lastHopLy(existing.route)
	if cLy != eLy {
		return cLy < eLy
	}
	return c.at.ID < existing.at.ID
}

func lastHopLy(r Route) float64 {
	if len(r.Hops) == 0 {
		return 0
	}
	return r.Hops[len(r.Hops)-1].Ly
}

func containsAll(r Route, stations []*catalog.Station) bool {
	for _, s := range stations {
		if !r.visits(s) {
			return false
		}
	}
	return true
}

func hopSummary(hop int, frontier []candidate) string {
	best := int64(0)
	if len(frontier) > 0 {
		best = frontier[0].route.Gain
	}
	return "hop " + strconv.Itoa(hop) + ": " + strconv.Itoa(len(frontier)) + " candidates, best gain " + Summary(best)
}
