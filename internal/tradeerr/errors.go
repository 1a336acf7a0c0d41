// Package tradeerr holds the typed errors surfaced across the catalog,
// price index, and planner packages.
package tradeerr

import "fmt"

// NotFound is raised when a system/station/item/ship name has no match.
type NotFound struct {
	Kind string // "system", "station", "item", "ship"
	Name string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.Name)
}

// Ambiguous is raised when a name matches more than one entity.
type Ambiguous struct {
	Kind    string
	Name    string
	Matches []string
}

func (e *Ambiguous) Error() string {
	return fmt.Sprintf("%s %q is ambiguous, matches: %v", e.Kind, e.Name, e.Matches)
}

// BadTimestamp is raised when a StationSelling/StationBuying row's modified
// column cannot be parsed. Load-time only; fatal to construction.
type BadTimestamp struct {
	Table     string
	StationID int64
	ItemID    int64
	Modified  string
}

func (e *BadTimestamp) Error() string {
	return fmt.Sprintf(
		"%s has a %s entry for item %d with an invalid modified timestamp: %q",
		stationRef(e.StationID), e.Table, e.ItemID, e.Modified,
	)
}

func stationRef(id int64) string {
	return fmt.Sprintf("station %d", id)
}

// NoHops is raised when the first hop extension produces zero routes.
type NoHops struct {
	Reason string
}

func (e *NoHops) Error() string {
	if e.Reason == "" {
		return "no destinations reachable within constraints"
	}
	return e.Reason
}

// NoData is raised when an origin or destination station has no price
// records at all where the planner requires them.
type NoData struct {
	StationName string
	Reason      string
}

func (e *NoData) Error() string {
	return fmt.Sprintf("%s: %s", e.StationName, e.Reason)
}

// InvalidConfig is raised for malformed planner configuration.
type InvalidConfig struct {
	Reason string
}

func (e *InvalidConfig) Error() string {
	return "invalid configuration: " + e.Reason
}
