package gefs

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/noaa-gefs-stac/internal/grib2"
)

const epsgWGS84 = 4326

// projection carries the proj:* fields for one grid.
type projection struct {
	EPSG      *int
	WKT2      string
	Shape     []int
	Transform []float64
	BBox      []float64
}

// projectionOf describes the grid's native reference system. Regular lat/lon
// grids are EPSG:4326 with a north-up affine transform in native longitudes
// (0-360 for GEFS). Projected grids get a WKT2 definition and no transform.
func projectionOf(g grib2.Grid) projection {
	var p projection
	if g.Ni > 0 && g.Nj > 0 {
		p.Shape = []int{int(g.Nj), int(g.Ni)}
	}

	if g.LatLon() {
		epsg := epsgWGS84
		p.EPSG = &epsg
		if g.Ni == 0 || g.Nj == 0 || g.Di == 0 || g.Dj == 0 {
			return p
		}
		west := g.Lo1
		if g.ScanningMode&scanNegativeI != 0 {
			west = g.Lo2
		}
		di, dj := round6(g.Di), round6(g.Dj)
		north := math.Max(g.La1, g.La2)
		x0 := round6(west - di/2)
		y0 := round6(north + dj/2)
		p.Transform = []float64{di, 0, x0, 0, -dj, y0}
		p.BBox = []float64{x0, round6(y0 - float64(g.Nj)*dj), round6(x0 + float64(g.Ni)*di), y0}
		return p
	}

	p.WKT2 = wkt2(g)
	return p
}

// wkt2 returns a WKT2:2019 PROJCRS for the projected grid templates, or ""
// for templates it does not know.
func wkt2(g grib2.Grid) string {
	var method string
	var params []string
	switch g.Template {
	case 30:
		method = `METHOD["Lambert Conic Conformal (2SP)",ID["EPSG",9802]]`
		params = []string{
			angleParam("Latitude of false origin", g.LaD, 8821),
			angleParam("Longitude of false origin", normalizeLon(g.LoV), 8822),
			angleParam("Latitude of 1st standard parallel", g.Latin1, 8823),
			angleParam("Latitude of 2nd standard parallel", g.Latin2, 8824),
			lengthParam("Easting at false origin", 8826),
			lengthParam("Northing at false origin", 8827),
		}
	case 20:
		lat := g.LaD
		if g.ProjectionCentre&0x80 != 0 && lat > 0 {
			lat = -lat
		}
		method = `METHOD["Polar Stereographic (variant B)",ID["EPSG",9829]]`
		params = []string{
			angleParam("Latitude of standard parallel", lat, 8832),
			angleParam("Longitude of origin", normalizeLon(g.LoV), 8833),
			lengthParam("False easting", 8806),
			lengthParam("False northing", 8807),
		}
	case 10:
		method = `METHOD["Mercator (variant B)",ID["EPSG",9805]]`
		params = []string{
			angleParam("Latitude of 1st standard parallel", g.LaD, 8823),
			angleParam("Longitude of natural origin", 0, 8802),
			lengthParam("False easting", 8806),
			lengthParam("False northing", 8807),
		}
	default:
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`PROJCRS["unknown",BASEGEOGCRS["unknown",DATUM["unknown",`)
	sb.WriteString(ellipsoid(g))
	sb.WriteString(`],PRIMEM["Greenwich",0,ANGLEUNIT["degree",0.0174532925199433]]],CONVERSION["unknown",`)
	sb.WriteString(method)
	for _, p := range params {
		sb.WriteByte(',')
		sb.WriteString(p)
	}
	sb.WriteString(`],CS[Cartesian,2],AXIS["easting",east,ORDER[1],LENGTHUNIT["metre",1]],AXIS["northing",north,ORDER[2],LENGTHUNIT["metre",1]]]`)
	return sb.String()
}

// ellipsoid follows code table 3.2.
func ellipsoid(g grib2.Grid) string {
	switch {
	case g.EarthRadius > 0:
		return fmt.Sprintf(`ELLIPSOID["Sphere",%s,0,LENGTHUNIT["metre",1]]`, num(g.EarthRadius))
	case g.EarthShape == 4:
		return `ELLIPSOID["GRS 1980",6378137,298.257222101,LENGTHUNIT["metre",1]]`
	case g.EarthShape == 5:
		return `ELLIPSOID["WGS 84",6378137,298.257223563,LENGTHUNIT["metre",1]]`
	default:
		return `ELLIPSOID["Sphere",6371229,0,LENGTHUNIT["metre",1]]`
	}
}

func angleParam(name string, v float64, code int) string {
	return fmt.Sprintf(`PARAMETER["%s",%s,ANGLEUNIT["degree",0.0174532925199433],ID["EPSG",%d]]`, name, num(round6(v)), code)
}

func lengthParam(name string, code int) string {
	return fmt.Sprintf(`PARAMETER["%s",0,LENGTHUNIT["metre",1],ID["EPSG",%d]]`, name, code)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
