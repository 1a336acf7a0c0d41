package galaxy

import (
	"sort"

	"tradewinds/internal/catalog"
)

// Destination is one system reachable from a BFS origin: how many jumps it
// took, the shortest cumulative light-year distance found to reach it, and
// the subset of its stations matching the query's pad-size/ls/black-market
// filters (spec.md §4.3: "for each reached system, emit all its stations
// matching the constraints").
type Destination struct {
	System       *catalog.System
	Jumps        int
	CumulativeLy float64
	Stations     []*catalog.Station
}

// DestinationOptions bounds a Destinations BFS.
type DestinationOptions struct {
	MaxJumps int            // 0 means unlimited (bounded only by MaxLyPer reachability)
	MaxLyPer float64        // per-jump range, required > 0
	Avoid    map[int64]bool // system ids to exclude from the frontier entirely

	PadSize     string  // minimum pad size a destination station must offer
	MaxLs       float64 // max light-seconds from star a destination station may sit at; 0 = unlimited
	BlackMarket bool    // require destination stations to run a black market
}

// Destinations runs a bounded breadth-first search from src, expanding the
// frontier one jump at a time via SystemsInRange(..., MaxLyPer, false) and
// keeping, for each reachable system, the smallest cumulative light-year
// distance and the jump count at which that distance was first achieved.
// Ties on cumulative distance are broken by ascending system id (the Open
// Question resolution recorded in DESIGN.md).
//
// Grounded on the teacher's graph/dijkstra.go SystemsWithinRadius BFS shape,
// generalized from a static Adj map to the dynamic distance-bounded edges
// original_source/commands/nav_cmd.py computes per query.
func (g *Galaxy) Destinations(src *catalog.System, opts DestinationOptions) []Destination {
	best := map[int64]*Destination{
		src.ID: {System: src, Jumps: 0, CumulativeLy: 0},
	}
	frontier := []*Destination{best[src.ID]}

	for jump := 1; opts.MaxJumps == 0 || jump <= opts.MaxJumps; jump++ {
		var next []*Destination
		advanced := false
		for _, cur := range frontier {
			for _, nd := range g.SystemsInRange(cur.System, opts.MaxLyPer, false) {
				if opts.Avoid[nd.System.ID] {
					continue
				}
				cum := cur.CumulativeLy + nd.Distance
				if existing, ok := best[nd.System.ID]; ok {
					if cum >= existing.CumulativeLy {
						continue
					}
				}
				d := &Destination{System: nd.System, Jumps: jump, CumulativeLy: cum}
				best[nd.System.ID] = d
				next = append(next, d)
				advanced = true
			}
		}
		if !advanced {
			break
		}
		frontier = next
	}

	out := make([]Destination, 0, len(best))
	for id, d := range best {
		if id == src.ID {
			continue
		}
		d.Stations = QualifyingStations(d.System, opts.PadSize, opts.MaxLs, opts.BlackMarket)
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CumulativeLy != out[j].CumulativeLy {
			return out[i].CumulativeLy < out[j].CumulativeLy
		}
		return out[i].System.ID < out[j].System.ID
	})
	return out
}
