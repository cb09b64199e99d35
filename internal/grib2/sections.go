package grib2

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

const microDegrees = 1e-6

func decodeIdentification(b []byte) (Identification, error) {
	if len(b) < 21 {
		return Identification{}, fmt.Errorf("%w: identification length %d", ErrMalformed, len(b))
	}

	year := int(binary.BigEndian.Uint16(b[12:14]))
	month, day := int(b[14]), int(b[15])
	hour, minute, second := int(b[16]), int(b[17]), int(b[18])
	ref, err := civilTime(year, month, day, hour, minute, second)
	if err != nil {
		return Identification{}, fmt.Errorf("reference time: %w", err)
	}

	return Identification{
		Centre:              binary.BigEndian.Uint16(b[5:7]),
		SubCentre:           binary.BigEndian.Uint16(b[7:9]),
		MasterTableVersion:  b[9],
		LocalTableVersion:   b[10],
		RefTimeSignificance: b[11],
		ReferenceTime:       ref,
		ProductionStatus:    b[19],
		DataType:            b[20],
	}, nil
}

func decodeGrid(b []byte) (Grid, error) {
	if len(b) < 14 {
		return Grid{}, fmt.Errorf("%w: grid definition length %d", ErrMalformed, len(b))
	}
	g := Grid{
		NumPoints: binary.BigEndian.Uint32(b[6:10]),
		Template:  binary.BigEndian.Uint16(b[12:14]),
	}

	minLen := map[uint16]int{0: 72, 10: 72, 20: 65, 30: 81}
	if n, ok := minLen[g.Template]; ok && len(b) < n {
		return Grid{}, fmt.Errorf("%w: template 3.%d length %d", ErrMalformed, g.Template, len(b))
	}
	if len(b) > 14 {
		g.EarthShape = b[14]
		g.EarthRadius = earthRadius(b)
	}

	switch g.Template {
	case 0:
		g.Ni = binary.BigEndian.Uint32(b[30:34])
		g.Nj = binary.BigEndian.Uint32(b[34:38])
		unit := angleUnit(binary.BigEndian.Uint32(b[38:42]), binary.BigEndian.Uint32(b[42:46]))
		g.La1 = float64(signed32(b[46:50])) * unit
		g.Lo1 = float64(signed32(b[50:54])) * unit
		g.La2 = float64(signed32(b[55:59])) * unit
		g.Lo2 = float64(signed32(b[59:63])) * unit
		g.Di = increment(binary.BigEndian.Uint32(b[63:67]), unit)
		g.Dj = increment(binary.BigEndian.Uint32(b[67:71]), unit)
		g.ScanningMode = b[71]
		if g.Di == 0 && g.Ni > 1 {
			g.Di = math.Abs(lonSpan(g.Lo1, g.Lo2)) / float64(g.Ni-1)
		}
		if g.Dj == 0 && g.Nj > 1 {
			g.Dj = math.Abs(g.La2-g.La1) / float64(g.Nj-1)
		}
	case 10:
		g.Ni = binary.BigEndian.Uint32(b[30:34])
		g.Nj = binary.BigEndian.Uint32(b[34:38])
		g.La1 = float64(signed32(b[38:42])) * microDegrees
		g.Lo1 = float64(signed32(b[42:46])) * microDegrees
		g.LaD = float64(signed32(b[47:51])) * microDegrees
		g.La2 = float64(signed32(b[51:55])) * microDegrees
		g.Lo2 = float64(signed32(b[55:59])) * microDegrees
		g.ScanningMode = b[59]
		g.Di = float64(binary.BigEndian.Uint32(b[64:68])) * 1e-3
		g.Dj = float64(binary.BigEndian.Uint32(b[68:72])) * 1e-3
	case 20:
		g.Ni = binary.BigEndian.Uint32(b[30:34])
		g.Nj = binary.BigEndian.Uint32(b[34:38])
		g.La1 = float64(signed32(b[38:42])) * microDegrees
		g.Lo1 = float64(signed32(b[42:46])) * microDegrees
		g.LaD = float64(signed32(b[47:51])) * microDegrees
		g.LoV = float64(signed32(b[51:55])) * microDegrees
		g.Di = float64(binary.BigEndian.Uint32(b[55:59])) * 1e-3
		g.Dj = float64(binary.BigEndian.Uint32(b[59:63])) * 1e-3
		g.ProjectionCentre = b[63]
		g.ScanningMode = b[64]
	case 30:
		g.Ni = binary.BigEndian.Uint32(b[30:34])
		g.Nj = binary.BigEndian.Uint32(b[34:38])
		g.La1 = float64(signed32(b[38:42])) * microDegrees
		g.Lo1 = float64(signed32(b[42:46])) * microDegrees
		g.LaD = float64(signed32(b[47:51])) * microDegrees
		g.LoV = float64(signed32(b[51:55])) * microDegrees
		g.Di = float64(binary.BigEndian.Uint32(b[55:59])) * 1e-3
		g.Dj = float64(binary.BigEndian.Uint32(b[59:63])) * 1e-3
		g.ProjectionCentre = b[63]
		g.ScanningMode = b[64]
		g.Latin1 = float64(signed32(b[65:69])) * microDegrees
		g.Latin2 = float64(signed32(b[69:73])) * microDegrees
	}
	return g, nil
}

// earthRadius returns the sphere radius in metres for spherical shapes of
// code table 3.2, or 0 for ellipsoids.
func earthRadius(b []byte) float64 {
	switch b[14] {
	case 0:
		return 6367470
	case 6:
		return 6371229
	case 8:
		return 6371200
	case 1:
		if len(b) < 20 {
			return 0
		}
		return scaled(signed8(b[15]), binary.BigEndian.Uint32(b[16:20]))
	default:
		return 0
	}
}

// angleUnit returns degrees per stored unit given the basic angle and subdivisions.
func angleUnit(basic, subdivisions uint32) float64 {
	if basic == 0 || basic == math.MaxUint32 || subdivisions == 0 || subdivisions == math.MaxUint32 {
		return microDegrees
	}
	return float64(basic) / float64(subdivisions)
}

func increment(v uint32, unit float64) float64 {
	if v == math.MaxUint32 {
		return 0
	}
	return float64(v) * unit
}

// lonSpan is the eastward distance from lo1 to lo2 in degrees.
func lonSpan(lo1, lo2 float64) float64 {
	d := lo2 - lo1
	if d < 0 {
		d += 360
	}
	return d
}

func decodeProduct(b []byte) (Product, error) {
	if len(b) < 11 {
		return Product{}, fmt.Errorf("%w: product definition length %d", ErrMalformed, len(b))
	}
	p := Product{
		Template: binary.BigEndian.Uint16(b[7:9]),
		Category: b[9],
		Number:   b[10],
	}

	// timing holds the octet indexes of the generating process, time unit,
	// forecast time and first fixed surface for each known layout.
	var timing struct{ gen, unit, fcst, surf, size int }
	switch p.Template {
	case 0, 1, 2, 8, 11, 12, 15:
		timing.gen, timing.unit, timing.fcst, timing.surf, timing.size = 11, 17, 18, 22, 34
	case 40, 41:
		timing.gen, timing.unit, timing.fcst, timing.surf, timing.size = 13, 19, 20, 24, 36
	case 48:
		timing.gen, timing.unit, timing.fcst, timing.surf, timing.size = 35, 41, 42, 46, 58
	default:
		return p, nil
	}
	if len(b) < timing.size {
		return Product{}, fmt.Errorf("%w: template 4.%d length %d", ErrMalformed, p.Template, len(b))
	}

	p.Timed = true
	p.GeneratingProcess = b[timing.gen]
	p.TimeUnit = b[timing.unit]
	p.ForecastTime = int64(signed32(b[timing.fcst : timing.fcst+4]))
	if _, ok := unitDurations[p.TimeUnit]; !ok && !calendarUnit(p.TimeUnit) {
		return Product{}, fmt.Errorf("%w: unsupported time unit %d", ErrMalformed, p.TimeUnit)
	}
	p.Surface = decodeSurface(b[timing.surf : timing.surf+6])

	var err error
	switch p.Template {
	case 1, 11:
		if err = need(b, 37); err != nil {
			return Product{}, err
		}
		p.Ensemble, p.EnsembleType, p.Perturbation = true, b[34], b[35]
	case 41:
		if err = need(b, 39); err != nil {
			return Product{}, err
		}
		p.Ensemble, p.EnsembleType, p.Perturbation = true, b[36], b[37]
	case 2, 12:
		if err = need(b, 36); err != nil {
			return Product{}, err
		}
		p.Derived, p.DerivedType = true, b[34]
	}

	end := map[uint16]int{8: 34, 11: 37, 12: 36}
	if at, ok := end[p.Template]; ok {
		if err = need(b, at+7); err != nil {
			return Product{}, err
		}
		p.IntervalEnd, err = civilTime(int(binary.BigEndian.Uint16(b[at:at+2])),
			int(b[at+2]), int(b[at+3]), int(b[at+4]), int(b[at+5]), int(b[at+6]))
		if err != nil {
			return Product{}, fmt.Errorf("end of interval: %w", err)
		}
	}
	return p, nil
}

func decodeSurface(b []byte) FixedSurface {
	if b[0] == missingOctet {
		return FixedSurface{Type: missingOctet, Missing: true}
	}
	s := FixedSurface{Type: b[0]}
	if binary.BigEndian.Uint32(b[2:6]) == math.MaxUint32 {
		return s
	}
	factor := int8(0)
	if b[1] != missingOctet {
		factor = signed8(b[1])
	}
	s.Value = float64(signed32(b[2:6])) / math.Pow10(int(factor))
	return s
}

func decodeRepresentation(b []byte) (Representation, error) {
	if len(b) < 11 {
		return Representation{}, fmt.Errorf("%w: data representation length %d", ErrMalformed, len(b))
	}
	r := Representation{
		NumPoints: binary.BigEndian.Uint32(b[5:9]),
		Template:  binary.BigEndian.Uint16(b[9:11]),
	}
	switch r.Template {
	case 0, 2, 3, 40, 41, 42, 50, 61:
		if len(b) >= 20 {
			r.BitsPerValue = b[19]
		}
	}
	return r, nil
}

func need(b []byte, n int) error {
	if len(b) < n {
		return fmt.Errorf("%w: section length %d, need %d", ErrMalformed, len(b), n)
	}
	return nil
}

func civilTime(year, month, day, hour, minute, second int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 60 {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d %02d:%02d:%02d", ErrMalformed, year, month, day, hour, minute, second)
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), nil
}

// signed32 decodes a 4-octet sign-magnitude integer.
func signed32(b []byte) int32 {
	v := binary.BigEndian.Uint32(b)
	if v&0x80000000 != 0 {
		return -int32(v & 0x7fffffff)
	}
	return int32(v)
}

// signed8 decodes a 1-octet sign-magnitude integer.
func signed8(b byte) int8 {
	if b&0x80 != 0 {
		return -int8(b & 0x7f)
	}
	return int8(b)
}

// scaled returns value / 10^factor.
func scaled(factor int8, value uint32) float64 {
	return float64(value) / math.Pow10(int(factor))
}
