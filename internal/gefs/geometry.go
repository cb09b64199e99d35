package gefs

import (
	"math"

	"github.com/couchcryptid/noaa-gefs-stac/internal/grib2"
	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
)

// scanning mode flag 1: points of the first row scan in the -i direction.
const scanNegativeI = 0x80

// footprint returns the [west, south, east, north] box of a grid. Only
// regular lat/lon grids are located; every other grid gets the global box.
func footprint(g grib2.Grid) []float64 {
	if !g.LatLon() || g.Ni == 0 || g.Nj == 0 {
		return []float64{-180, -90, 180, 90}
	}

	south, north := math.Min(g.La1, g.La2), math.Max(g.La1, g.La2)
	south, north = clamp(round6(south), -90, 90), clamp(round6(north), -90, 90)

	if float64(g.Ni)*g.Di >= 360-1e-6 {
		return []float64{-180, south, 180, north}
	}

	west, east := g.Lo1, g.Lo2
	if g.ScanningMode&scanNegativeI != 0 {
		west, east = east, west
	}
	west, east = round6(normalizeLon(west)), round6(normalizeLon(east))
	// 180 and -180 are the same meridian; a west edge there starts the box
	// and an east edge there ends it.
	if west == 180 {
		west = -180
	}
	if east == -180 {
		east = 180
	}
	if west > east {
		// Crosses the antimeridian; a single box cannot describe it.
		return []float64{-180, south, 180, north}
	}
	return []float64{west, south, east, north}
}

// polygon returns the counter-clockwise GeoJSON ring around bbox.
func polygon(bbox []float64) stac.Geometry {
	w, s, e, n := bbox[0], bbox[1], bbox[2], bbox[3]
	return stac.Geometry{
		Type: "Polygon",
		Coordinates: [][][2]float64{{
			{w, s}, {e, s}, {e, n}, {w, n}, {w, s},
		}},
	}
}

// normalizeLon maps a longitude in any range to [-180, 180].
func normalizeLon(lon float64) float64 {
	lon = math.Mod(lon, 360)
	switch {
	case lon > 180:
		lon -= 360
	case lon < -180:
		lon += 360
	}
	return lon
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round6 rounds to the micro-degree precision GRIB2 stores coordinates at.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
