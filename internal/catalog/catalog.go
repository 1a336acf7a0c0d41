// Package catalog builds and serves the in-memory indices of systems,
// stations, items, and ships (spec.md's C1), loaded once from a store.Store
// at planner construction and immutable afterward.
package catalog

import (
	"context"
	"fmt"
	"math"
	"strings"

	"tradewinds/internal/store"
	"tradewinds/internal/tradeerr"
)

// System is a star system: id, name, 3D position, and the stations within
// it. Immutable post-load (spec.md §3).
type System struct {
	ID       int64
	Name     string
	X, Y, Z  float64
	Stations []*Station
}

// DistanceTo returns the 3D Euclidean distance in light-years to other.
func (s *System) DistanceTo(other *System) float64 {
	dx, dy, dz := s.X-other.X, s.Y-other.Y, s.Z-other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Station is a dockable station within a System. Immutable post-load
// except for the planner-owned trade.Cache, which never lives on this
// struct (spec.md §9's design note).
type Station struct {
	ID          int64
	System      *System
	Name        string
	LsFromStar  float64
	BlackMarket string // "Y", "N", "?"
	MaxPadSize  string // "S", "M", "L", "?"
	Shipyard    string
	Outfitting  string
	Refuel      string
	ItemCount   int
}

// FullName returns "System/Station" for logging and route rendering.
func (s *Station) FullName() string {
	return fmt.Sprintf("%s/%s", s.System.Name, s.Name)
}

// Item is a tradeable good. Immutable.
type Item struct {
	ID       int64
	Name     string
	Category string
}

// Ship restores the data the distillation dropped (original_source/data/
// ships.py) so Config.ApplyShip can backfill capacity/range defaults
// (SPEC_FULL.md §17).
type Ship struct {
	ID            int64
	Name          string
	CargoCapacity float64
	MaxLyFull     float64
}

// Catalog is the immutable, built-once index of Systems, Stations, Items,
// and Ships (spec.md C1).
type Catalog struct {
	systems  map[int64]*System
	stations map[int64]*Station
	items    map[int64]*Item
	ships    map[int64]*Ship

	systemsByName  map[string]*System
	stationsByName map[string]*Station
	itemsByName    map[string]*Item
	shipsByName    map[string]*Ship
}

// Load builds a Catalog from a store.Store. This is the one-time,
// construction-phase query described in spec.md §5 ("external store is
// queried only during construction").
func Load(ctx context.Context, s store.Store) (*Catalog, error) {
	sysRows, err := s.Systems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load systems: %w", err)
	}
	stnRows, err := s.Stations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stations: %w", err)
	}
	itemRows, err := s.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	shipRows, err := s.Ships(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ships: %w", err)
	}

	c := &Catalog{
		systems:        make(map[int64]*System, len(sysRows)),
		stations:       make(map[int64]*Station, len(stnRows)),
		items:          make(map[int64]*Item, len(itemRows)),
		ships:          make(map[int64]*Ship, len(shipRows)),
		systemsByName:  make(map[string]*System, len(sysRows)),
		stationsByName: make(map[string]*Station, len(stnRows)),
		itemsByName:    make(map[string]*Item, len(itemRows)),
		shipsByName:    make(map[string]*Ship, len(shipRows)),
	}

	for _, r := range sysRows {
		sys := &System{ID: r.ID, Name: r.Name, X: r.X, Y: r.Y, Z: r.Z}
		c.systems[r.ID] = sys
		c.systemsByName[normalize(r.Name)] = sys
	}
	for _, r := range stnRows {
		sys, ok := c.systems[r.SystemID]
		if !ok {
			continue // orphaned row; loader's concern, planner assumes a clean catalog (spec.md §9)
		}
		stn := &Station{
			ID: r.ID, System: sys, Name: r.Name, LsFromStar: r.LsFromStar,
			BlackMarket: r.BlackMarket, MaxPadSize: r.MaxPadSize,
			Shipyard: r.Shipyard, Outfitting: r.Outfitting, Refuel: r.Refuel,
			ItemCount: r.ItemCount,
		}
		c.stations[r.ID] = stn
		c.stationsByName[normalize(stn.FullName())] = stn
		sys.Stations = append(sys.Stations, stn)
	}
	for _, r := range itemRows {
		it := &Item{ID: r.ID, Name: r.Name, Category: r.Category}
		c.items[r.ID] = it
		c.itemsByName[normalize(r.Name)] = it
	}
	for _, r := range shipRows {
		sh := &Ship{ID: r.ID, Name: r.Name, CargoCapacity: r.CargoCapacity, MaxLyFull: r.MaxLyFull}
		c.ships[r.ID] = sh
		c.shipsByName[normalize(r.Name)] = sh
	}

	return c, nil
}

// Systems iterates all loaded systems.
func (c *Catalog) Systems() []*System {
	out := make([]*System, 0, len(c.systems))
	for _, s := range c.systems {
		out = append(out, s)
	}
	return out
}

// Stations iterates all loaded stations.
func (c *Catalog) Stations() []*Station {
	out := make([]*Station, 0, len(c.stations))
	for _, s := range c.stations {
		out = append(out, s)
	}
	return out
}

// Items iterates all loaded items.
func (c *Catalog) Items() []*Item {
	out := make([]*Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it)
	}
	return out
}

// Ships iterates all loaded ships.
func (c *Catalog) Ships() []*Ship {
	out := make([]*Ship, 0, len(c.ships))
	for _, sh := range c.ships {
		out = append(out, sh)
	}
	return out
}

// SystemByID looks up a system by id.
func (c *Catalog) SystemByID(id int64) (*System, bool) {
	s, ok := c.systems[id]
	return s, ok
}

// StationByID looks up a station by id.
func (c *Catalog) StationByID(id int64) (*Station, bool) {
	s, ok := c.stations[id]
	return s, ok
}

// LookupSystem resolves a system by exact or normalized name.
func (c *Catalog) LookupSystem(name string) (*System, error) {
	if s, ok := c.systemsByName[normalize(name)]; ok {
		return s, nil
	}
	return nil, &tradeerr.NotFound{Kind: "system", Name: name}
}

// LookupStation resolves a station by "System/Station" or bare station
// name (bare names are matched case-insensitively against the substring
// after the slash; ambiguous bare names return tradeerr.Ambiguous).
func (c *Catalog) LookupStation(name string) (*Station, error) {
	if s, ok := c.stationsByName[normalize(name)]; ok {
		return s, nil
	}
	needle := normalize(name)
	var matches []*Station
	for key, s := range c.stationsByName {
		if strings.HasSuffix(key, "/"+needle) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, &tradeerr.NotFound{Kind: "station", Name: name}
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.FullName()
		}
		return nil, &tradeerr.Ambiguous{Kind: "station", Name: name, Matches: names}
	}
}

// LookupItem resolves an item by exact or normalized name.
func (c *Catalog) LookupItem(name string) (*Item, error) {
	if it, ok := c.itemsByName[normalize(name)]; ok {
		return it, nil
	}
	return nil, &tradeerr.NotFound{Kind: "item", Name: name}
}

// LookupShip resolves a ship by exact or normalized name.
func (c *Catalog) LookupShip(name string) (*Ship, error) {
	if sh, ok := c.shipsByName[normalize(name)]; ok {
		return sh, nil
	}
	return nil, &tradeerr.NotFound{Kind: "ship", Name: name}
}

// normalize collapses whitespace and upper-cases for name matching,
// matching TradeDangerous's corrections.py convention of upper-casing
// lookup keys.
func normalize(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
