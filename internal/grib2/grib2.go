package grib2

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

var (
	// ErrNotGRIB2 is returned when the indicator section is missing or the
	// edition number is not 2.
	ErrNotGRIB2 = errors.New("not a GRIB2 message")

	// ErrTruncated is returned when a section runs past the end of the input.
	ErrTruncated = errors.New("truncated GRIB2 message")

	// ErrMalformed is returned for sections whose declared contents are inconsistent.
	ErrMalformed = errors.New("malformed GRIB2 section")
)

const (
	indicatorLength = 16
	endMarker       = "7777"
	missingOctet    = 0xff
)

// File holds the decoded header records of every field in a GRIB2 file.
type File struct {
	Messages []Message
	// TrailingBytes counts bytes after the last message that do not start
	// another one, e.g. zero padding left by archive copies.
	TrailingBytes int64
}

// Message is the header record for a single field.
type Message struct {
	// Index is the 1-based message number; Field is the 1-based field number
	// inside that message (wgrib2 "Index.Field").
	Index int
	Field int

	// Offset is the byte offset of the message's indicator section.
	Offset int64
	Length uint64

	Discipline     uint8
	Identification Identification
	Grid           Grid
	Product        Product
	Representation Representation
}

// Identification is the content of section 1.
type Identification struct {
	Centre              uint16
	SubCentre           uint16
	MasterTableVersion  uint8
	LocalTableVersion   uint8
	RefTimeSignificance uint8
	ReferenceTime       time.Time
	ProductionStatus    uint8
	DataType            uint8
}

// Grid is the content of section 3. Fields not used by a template stay zero.
type Grid struct {
	Template   uint16
	NumPoints  uint32
	EarthShape uint8
	// EarthRadius is in metres and only set for spherical earth shapes.
	EarthRadius float64

	Ni, Nj uint32
	// Corner points in degrees. Lo1/Lo2 keep the GRIB convention of [0, 360).
	La1, Lo1 float64
	La2, Lo2 float64
	// Di/Dj in degrees (lat/lon) or metres (projected grids).
	Di, Dj       float64
	ScanningMode uint8

	// Projection parameters (templates 3.10, 3.20, 3.30), degrees.
	LaD, LoV         float64
	Latin1, Latin2   float64
	ProjectionCentre uint8
}

// LatLon reports whether the grid is a regular latitude/longitude grid.
func (g Grid) LatLon() bool {
	return g.Template == 0
}

// Product is the content of section 4.
type Product struct {
	Template          uint16
	Category          uint8
	Number            uint8
	GeneratingProcess uint8

	// Timed is false when the template's forecast-time fields are not known
	// to this package.
	Timed        bool
	TimeUnit     uint8
	ForecastTime int64

	Surface FixedSurface

	// Ensemble is set for templates carrying ensemble information
	// (4.1, 4.11, 4.41). EnsembleType uses code table 4.6.
	Ensemble     bool
	EnsembleType uint8
	Perturbation uint8

	// Derived is set for derived ensemble products (4.2, 4.12).
	Derived     bool
	DerivedType uint8

	// IntervalEnd is the end of the overall time interval for statistically
	// processed templates (4.8, 4.11, 4.12); zero otherwise.
	IntervalEnd time.Time
}

// FixedSurface is the first fixed surface of a product definition.
type FixedSurface struct {
	Type    uint8
	Value   float64
	Missing bool
}

// Representation is the content of section 5.
type Representation struct {
	Template     uint16
	NumPoints    uint32
	BitsPerValue uint8
}

// StartTime is the reference time advanced by the forecast time.
func (m Message) StartTime() time.Time {
	t, _ := addTimeUnits(m.Identification.ReferenceTime, m.Product.TimeUnit, m.Product.ForecastTime)
	return t
}

// ValidTime is the end of the statistical interval when present, otherwise StartTime.
func (m Message) ValidTime() time.Time {
	if !m.Product.IntervalEnd.IsZero() {
		return m.Product.IntervalEnd
	}
	return m.StartTime()
}

// Open reads the header records of the GRIB2 file at path.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Read decodes every message in r. The reader is consumed to EOF.
func Read(r io.Reader) (*File, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	file := &File{}
	var offset int64

	for index := 1; ; index++ {
		if len(file.Messages) > 0 {
			magic, err := br.Peek(4)
			if len(magic) == 0 && errors.Is(err, io.EOF) {
				break
			}
			if string(magic) != "GRIB" {
				rest, err := io.Copy(io.Discard, br)
				if err != nil {
					return nil, fmt.Errorf("skip trailing bytes at offset %d: %w", offset, err)
				}
				file.TrailingBytes = rest
				break
			}
		}
		msgs, n, err := readMessage(br, offset, index)
		if errors.Is(err, io.EOF) && n == 0 {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("message %d at offset %d: %w", index, offset, err)
		}
		file.Messages = append(file.Messages, msgs...)
		offset += n
	}

	if len(file.Messages) == 0 {
		return nil, fmt.Errorf("read grib2: %w", ErrNotGRIB2)
	}
	return file, nil
}

// readMessage decodes one message starting at the indicator section. It
// returns the fields found and the number of bytes consumed.
func readMessage(r *bufio.Reader, offset int64, index int) ([]Message, int64, error) {
	var ind [indicatorLength]byte
	n, err := io.ReadFull(r, ind[:])
	if err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return nil, 0, io.EOF
		}
		return nil, int64(n), ErrTruncated
	}
	if string(ind[0:4]) != "GRIB" {
		return nil, indicatorLength, ErrNotGRIB2
	}
	if ind[7] != 2 {
		return nil, indicatorLength, fmt.Errorf("%w: edition %d", ErrNotGRIB2, ind[7])
	}

	total := binary.BigEndian.Uint64(ind[8:16])
	consumed := int64(indicatorLength)

	cur := Message{
		Index:      index,
		Offset:     offset,
		Length:     total,
		Discipline: ind[6],
	}
	var (
		fields       []Message
		seen1, seen3 bool
		seen4        bool
	)

	for {
		peek, err := r.Peek(4)
		if err != nil {
			return nil, consumed, ErrTruncated
		}
		if string(peek) == endMarker {
			if _, err := r.Discard(4); err != nil {
				return nil, consumed, ErrTruncated
			}
			consumed += 4
			break
		}

		var hdr [5]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, consumed, ErrTruncated
		}
		length := int64(binary.BigEndian.Uint32(hdr[0:4]))
		number := hdr[4]
		if length < 5 || uint64(consumed+length) > total {
			return nil, consumed, fmt.Errorf("%w: section %d length %d", ErrMalformed, number, length)
		}

		switch number {
		case 1, 3, 4, 5:
			buf := make([]byte, length)
			copy(buf, hdr[:])
			if _, err := io.ReadFull(r, buf[5:]); err != nil {
				return nil, consumed, ErrTruncated
			}
			if err := decodeSection(number, buf, &cur); err != nil {
				return nil, consumed, err
			}
			switch number {
			case 1:
				seen1 = true
			case 3:
				seen3 = true
			case 4:
				seen4 = true
			}
		case 2, 6, 7:
			if _, err := io.CopyN(io.Discard, r, length-5); err != nil {
				return nil, consumed, ErrTruncated
			}
			if number == 7 {
				if !seen1 || !seen3 || !seen4 {
					return nil, consumed, fmt.Errorf("%w: data section before sections 1, 3 and 4", ErrMalformed)
				}
				cur.Field = len(fields) + 1
				fields = append(fields, cur)
			}
		default:
			return nil, consumed, fmt.Errorf("%w: unknown section number %d", ErrMalformed, number)
		}
		consumed += length
	}

	if uint64(consumed) != total {
		return nil, consumed, fmt.Errorf("%w: consumed %d of %d octets", ErrMalformed, consumed, total)
	}
	if len(fields) == 0 {
		return nil, consumed, fmt.Errorf("%w: message without data section", ErrMalformed)
	}
	return fields, consumed, nil
}

func decodeSection(number uint8, buf []byte, m *Message) error {
	var err error
	switch number {
	case 1:
		m.Identification, err = decodeIdentification(buf)
	case 3:
		m.Grid, err = decodeGrid(buf)
	case 4:
		m.Product, err = decodeProduct(buf)
	case 5:
		m.Representation, err = decodeRepresentation(buf)
	}
	if err != nil {
		return fmt.Errorf("section %d: %w", number, err)
	}
	return nil
}
