package galaxy

import "tradewinds/internal/catalog"

var padSizeRank = map[string]int{"S": 1, "M": 2, "L": 3}

// QualifyingStations returns sys's stations that satisfy the destination
// filters spec.md §4.3/§4.5 apply alongside jump-graph reachability: a
// minimum pad size, a maximum light-seconds-from-star, and (optionally)
// black market access. An empty padSize and a zero maxLs impose no
// constraint.
func QualifyingStations(sys *catalog.System, padSize string, maxLs float64, blackMarket bool) []*catalog.Station {
	if padSize == "" && maxLs <= 0 && !blackMarket {
		return sys.Stations
	}
	out := make([]*catalog.Station, 0, len(sys.Stations))
	for _, stn := range sys.Stations {
		if padSize != "" && padSizeRank[stn.MaxPadSize] < padSizeRank[padSize] {
			continue
		}
		if maxLs > 0 && stn.LsFromStar > maxLs {
			continue
		}
		if blackMarket && stn.BlackMarket != "Y" {
			continue
		}
		out = append(out, stn)
	}
	return out
}
