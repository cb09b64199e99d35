// Package grib2test builds synthetic GRIB2 messages for tests. The messages
// carry valid header sections and an empty data section, which is all the
// header reader looks at.
package grib2test

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Grid describes section 3. Template 0 uses degrees; 10, 20 and 30 use
// degrees for angles and metres for DxMetres/DyMetres.
type Grid struct {
	Template     uint16
	EarthShape   uint8
	Ni, Nj       uint32
	La1, Lo1     float64
	La2, Lo2     float64
	Di, Dj       float64
	ScanningMode uint8

	LaD, LoV           float64
	Latin1, Latin2     float64
	DxMetres, DyMetres float64
}

// GlobalLatLon returns the global regular grid used by GEFS at the given
// resolution in degrees (0.25 or 0.5).
func GlobalLatLon(step float64) Grid {
	return Grid{
		Template:   0,
		EarthShape: 6,
		Ni:         uint32(math.Round(360 / step)),
		Nj:         uint32(math.Round(180/step)) + 1,
		La1:        90,
		Lo1:        0,
		La2:        -90,
		Lo2:        360 - step,
		Di:         step,
		Dj:         step,
	}
}

// Lambert returns a CONUS-like Lambert conformal grid (template 3.30).
func Lambert() Grid {
	return Grid{
		Template:   30,
		EarthShape: 6,
		Ni:         1799,
		Nj:         1059,
		La1:        21.138123,
		Lo1:        237.280472,
		LaD:        38.5,
		LoV:        262.5,
		Latin1:     38.5,
		Latin2:     38.5,
		DxMetres:   3000,
		DyMetres:   3000,
	}
}

// Field describes one product (sections 4-7).
type Field struct {
	// ProductTemplate is 0, 1, 8, 11 or 48.
	ProductTemplate uint16
	Category        uint8
	Number          uint8
	// TimeUnit is a code table 4.4 value; zero means minutes, so most
	// callers set 1 (hour).
	TimeUnit     uint8
	ForecastTime int32

	SurfaceType  uint8
	SurfaceScale int8
	SurfaceValue int32

	EnsembleType uint8
	Perturbation uint8

	// IntervalEnd is required for templates 8 and 11.
	IntervalEnd time.Time

	BitsPerValue uint8
}

// Message describes a full GRIB2 message.
type Message struct {
	Discipline    uint8
	Centre        uint16
	ReferenceTime time.Time
	Grid          Grid
	Fields        []Field
}

// Bytes encodes the message.
func (m Message) Bytes() []byte {
	var body []byte
	body = append(body, identification(m)...)
	body = append(body, grid(m.Grid)...)
	points := m.Grid.Ni * m.Grid.Nj
	for _, f := range m.Fields {
		body = append(body, product(f)...)
		body = append(body, representation(f, points)...)
		body = append(body, section(6, []byte{0xff})...)
		body = append(body, section(7, make([]byte, 8))...)
	}

	total := 16 + len(body) + 4
	out := make([]byte, 16, total)
	copy(out[0:4], "GRIB")
	out[6] = m.Discipline
	out[7] = 2
	binary.BigEndian.PutUint64(out[8:16], uint64(total))
	out = append(out, body...)
	return append(out, "7777"...)
}

// Encode concatenates messages into one file image.
func Encode(msgs ...Message) []byte {
	var out []byte
	for _, m := range msgs {
		out = append(out, m.Bytes()...)
	}
	return out
}

// WriteFile writes the encoded messages to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name string, msgs ...Message) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Encode(msgs...), 0o644); err != nil {
		t.Fatalf("write grib2 fixture: %v", err)
	}
	return path
}

// Index renders a wgrib2-style sidecar for the messages. Variable names are
// supplied by the caller, one per field in order.
func Index(msgs []Message, names ...string) string {
	var sb strings.Builder
	var offset int
	n := 0
	for i, m := range msgs {
		for j, f := range m.Fields {
			record := fmt.Sprint(i + 1)
			if len(m.Fields) > 1 {
				record = fmt.Sprintf("%d.%d", i+1, j+1)
			}
			name := "VAR"
			if n < len(names) {
				name = names[n]
			}
			fcst := "anl"
			if f.ForecastTime > 0 {
				fcst = fmt.Sprintf("%d hour fcst", f.ForecastTime)
			}
			fmt.Fprintf(&sb, "%s:%d:d=%s:%s:surface:%s:\n", record, offset, m.ReferenceTime.UTC().Format("2006010215"), name, fcst)
			n++
		}
		offset += len(m.Bytes())
	}
	return sb.String()
}

func section(number byte, content []byte) []byte {
	out := make([]byte, 5, 5+len(content))
	binary.BigEndian.PutUint32(out[0:4], uint32(5+len(content)))
	out[4] = number
	return append(out, content...)
}

func identification(m Message) []byte {
	b := make([]byte, 21)
	binary.BigEndian.PutUint16(b[5:7], m.Centre)
	b[9] = 2
	b[10] = 1
	b[11] = 1
	t := m.ReferenceTime.UTC()
	binary.BigEndian.PutUint16(b[12:14], uint16(t.Year()))
	b[14] = byte(t.Month())
	b[15] = byte(t.Day())
	b[16] = byte(t.Hour())
	b[17] = byte(t.Minute())
	b[18] = byte(t.Second())
	b[20] = 1
	return section(1, b[5:])
}

func grid(g Grid) []byte {
	var b []byte
	switch g.Template {
	case 0:
		b = make([]byte, 72)
		putUint32(b[30:34], g.Ni)
		putUint32(b[34:38], g.Nj)
		putUint32(b[42:46], math.MaxUint32)
		putDegrees(b[46:50], g.La1)
		putDegrees(b[50:54], g.Lo1)
		b[54] = 48
		putDegrees(b[55:59], g.La2)
		putDegrees(b[59:63], g.Lo2)
		putDegrees(b[63:67], g.Di)
		putDegrees(b[67:71], g.Dj)
		b[71] = g.ScanningMode
	case 10:
		b = make([]byte, 72)
		putUint32(b[30:34], g.Ni)
		putUint32(b[34:38], g.Nj)
		putDegrees(b[38:42], g.La1)
		putDegrees(b[42:46], g.Lo1)
		putDegrees(b[47:51], g.LaD)
		putDegrees(b[51:55], g.La2)
		putDegrees(b[55:59], g.Lo2)
		b[59] = g.ScanningMode
		putUint32(b[64:68], uint32(g.DxMetres*1e3))
		putUint32(b[68:72], uint32(g.DyMetres*1e3))
	case 20, 30:
		size := 65
		if g.Template == 30 {
			size = 81
		}
		b = make([]byte, size)
		putUint32(b[30:34], g.Ni)
		putUint32(b[34:38], g.Nj)
		putDegrees(b[38:42], g.La1)
		putDegrees(b[42:46], g.Lo1)
		putDegrees(b[47:51], g.LaD)
		putDegrees(b[51:55], g.LoV)
		putUint32(b[55:59], uint32(g.DxMetres*1e3))
		putUint32(b[59:63], uint32(g.DyMetres*1e3))
		b[64] = g.ScanningMode
		if g.Template == 30 {
			putDegrees(b[65:69], g.Latin1)
			putDegrees(b[69:73], g.Latin2)
		}
	default:
		b = make([]byte, 14)
	}
	putUint32(b[6:10], g.Ni*g.Nj)
	binary.BigEndian.PutUint16(b[12:14], g.Template)
	if len(b) > 14 {
		b[14] = g.EarthShape
	}
	return section(3, b[5:])
}

func product(f Field) []byte {
	var b []byte
	switch f.ProductTemplate {
	case 48:
		b = make([]byte, 58)
		for i := 13; i < 35; i++ {
			b[i] = 0xff
		}
		b[35] = 2
		b[41] = f.TimeUnit
		putSigned32(b[42:46], f.ForecastTime)
		putSurface(b[46:58], f)
	default:
		size := map[uint16]int{0: 34, 1: 37, 8: 58, 11: 61}[f.ProductTemplate]
		if size == 0 {
			size = 34
		}
		b = make([]byte, size)
		b[11] = 2
		b[13] = 107
		b[17] = f.TimeUnit
		putSigned32(b[18:22], f.ForecastTime)
		putSurface(b[22:34], f)
		switch f.ProductTemplate {
		case 1:
			b[34], b[35], b[36] = f.EnsembleType, f.Perturbation, 31
		case 8:
			putTime(b[34:41], f.IntervalEnd)
			b[41] = 1
		case 11:
			b[34], b[35], b[36] = f.EnsembleType, f.Perturbation, 31
			putTime(b[37:44], f.IntervalEnd)
			b[44] = 1
		}
	}
	binary.BigEndian.PutUint16(b[7:9], f.ProductTemplate)
	b[9] = f.Category
	b[10] = f.Number
	return section(4, b[5:])
}

func representation(f Field, points uint32) []byte {
	b := make([]byte, 21)
	putUint32(b[5:9], points)
	b[19] = f.BitsPerValue
	return section(5, b[5:])
}

func putSurface(b []byte, f Field) {
	b[0] = f.SurfaceType
	if f.SurfaceType == 0 {
		b[0] = 1
	}
	b[1] = byte(f.SurfaceScale)
	if f.SurfaceScale < 0 {
		b[1] = byte(-f.SurfaceScale) | 0x80
	}
	putSigned32(b[2:6], f.SurfaceValue)
	b[6] = 0xff
	b[7] = 0xff
	putUint32(b[8:12], math.MaxUint32)
}

func putTime(b []byte, t time.Time) {
	t = t.UTC()
	binary.BigEndian.PutUint16(b[0:2], uint16(t.Year()))
	b[2] = byte(t.Month())
	b[3] = byte(t.Day())
	b[4] = byte(t.Hour())
	b[5] = byte(t.Minute())
	b[6] = byte(t.Second())
}

func putUint32(b []byte, v uint32) {
	binary.BigEndian.PutUint32(b, v)
}

func putSigned32(b []byte, v int32) {
	if v < 0 {
		binary.BigEndian.PutUint32(b, uint32(-v)|0x80000000)
		return
	}
	binary.BigEndian.PutUint32(b, uint32(v))
}

func putDegrees(b []byte, deg float64) {
	putSigned32(b, int32(math.Round(deg*1e6)))
}
