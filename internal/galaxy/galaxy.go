// Package galaxy answers jump-graph queries over the catalog's systems.
// Unlike the teacher's static stargate adjacency list (graph/universe.go),
// this galaxy has no precomputed edges: two systems are adjacent whenever
// their 3D distance is within a per-query max_ly_per jump range, matching
// original_source/commands/nav_cmd.py's genSystemsInRange generator. Each
// query (SystemsInRange, Destinations) bounds its own BFS/full-scan rather
// than walking a fixed Adj map.
package galaxy

import (
	"sort"

	"tradewinds/internal/catalog"
)

// Galaxy wraps a catalog's systems for distance-bounded graph queries.
type Galaxy struct {
	systems []*catalog.System
}

// New builds a Galaxy view over the catalog's systems. Cheap: it takes no
// copy of per-system data, only the slice of pointers.
func New(c *catalog.Catalog) *Galaxy {
	return &Galaxy{systems: c.Systems()}
}

// SystemDistance pairs a system with its distance from a query origin.
type SystemDistance struct {
	System   *catalog.System
	Distance float64
}

// SystemsInRange returns every system within maxLy of origin (inclusive of
// origin itself when includeSelf is true), sorted by ascending distance
// then system id for determinism. This is a full scan, matching
// tradecalc.py's data scale (thousands, not millions, of systems) and the
// teacher's unindexed station/system slices — no spatial index is built.
func (g *Galaxy) SystemsInRange(origin *catalog.System, maxLy float64, includeSelf bool) []SystemDistance {
	out := make([]SystemDistance, 0, len(g.systems))
	for _, s := range g.systems {
		if s == origin {
			if includeSelf {
				out = append(out, SystemDistance{System: s, Distance: 0})
			}
			continue
		}
		d := origin.DistanceTo(s)
		if d <= maxLy {
			out = append(out, SystemDistance{System: s, Distance: d})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return out[i].System.ID < out[j].System.ID
	})
	return out
}
