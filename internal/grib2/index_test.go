package grib2

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndex(t *testing.T) {
	input := `1:0:d=2022081600:HGT:10 mb:anl:ENS=low-res ctl
2:50313:d=2022081600:TMP:2 m above ground:6 hour fcst:ENS=+1

3.1:98811:d=2022081600:UGRD:10 m above ground:6 hour fcst:
`
	entries, err := ParseIndex(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	ref := time.Date(2022, time.August, 16, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, IndexEntry{
		Record:        "1",
		Offset:        0,
		ReferenceTime: ref,
		Variable:      "HGT",
		Level:         "10 mb",
		Forecast:      "anl",
		Extra:         "ENS=low-res ctl",
	}, entries[0])
	assert.Equal(t, int64(50313), entries[1].Offset)
	assert.Equal(t, "2 m above ground", entries[1].Level)
	assert.Equal(t, "3.1", entries[2].Record)
	assert.Empty(t, entries[2].Extra)
}

func TestParseIndexLine_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"too few fields", "1:0:d=2022081600:TMP", "expected at least 6 fields"},
		{"bad offset", "1:x:d=2022081600:TMP:surface:anl", "offset"},
		{"missing date prefix", "1:0:2022081600:TMP:surface:anl", "missing d= prefix"},
		{"bad date", "1:0:d=20220816:TMP:surface:anl", "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseIndexLine(tt.line)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseIndex_ReportsLineNumber(t *testing.T) {
	_, err := ParseIndex(strings.NewReader("1:0:d=2022081600:TMP:surface:anl:\nbroken\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index line 2")
}

func TestSignMagnitude(t *testing.T) {
	assert.Equal(t, int32(90000000), signed32([]byte{0x05, 0x5d, 0x4a, 0x80}))
	assert.Equal(t, int32(-90000000), signed32([]byte{0x85, 0x5d, 0x4a, 0x80}))
	assert.Equal(t, int8(-3), signed8(0x83))
	assert.Equal(t, int8(3), signed8(0x03))
}

func TestAddTimeUnits(t *testing.T) {
	ref := time.Date(2022, time.August, 16, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		unit uint8
		n    int64
		want time.Time
		ok   bool
	}{
		{"hours", 1, 6, ref.Add(6 * time.Hour), true},
		{"minutes", 0, 90, ref.Add(90 * time.Minute), true},
		{"days", 2, 2, ref.AddDate(0, 0, 2), true},
		{"three hours", 10, 2, ref.Add(6 * time.Hour), true},
		{"months", 3, 1, ref.AddDate(0, 1, 0), true},
		{"years", 4, 1, ref.AddDate(1, 0, 0), true},
		{"unknown", 99, 1, ref, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := addTimeUnits(ref, tt.unit, tt.n)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelShortName(t *testing.T) {
	tests := []struct {
		surface FixedSurface
		want    string
	}{
		{FixedSurface{Type: 103, Value: 2}, "2-HTGL"},
		{FixedSurface{Type: 100, Value: 50000}, "50000-ISBL"},
		{FixedSurface{Type: 1}, "0-SFC"},
		{FixedSurface{Type: 150, Value: 1.5}, "1.5-LVL150"},
		{FixedSurface{Type: missingOctet, Missing: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			m := Message{Product: Product{Surface: tt.surface}}
			assert.Equal(t, tt.want, m.LevelShortName())
		})
	}
}

func TestDecodeSurface_ScaledValue(t *testing.T) {
	// scale factor 2, scaled value 150 -> 1.5
	s := decodeSurface([]byte{106, 0x02, 0x00, 0x00, 0x00, 0x96})
	assert.Equal(t, uint8(106), s.Type)
	assert.InDelta(t, 1.5, s.Value, 1e-9)
}
