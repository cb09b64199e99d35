package gefs

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// atmosRe matches "geavg.t00z.pgrb2a.0p50.f000".
	atmosRe = regexp.MustCompile(`^ge(c00|p\d{2}|avg|spr)\.t(\d{2})z\.([a-z0-9]+)\.(\dp\d{2})\.f(\d{3})$`)

	// chemRe matches "gefs.chem.t00z.a2d_0p25.f000".
	chemRe = regexp.MustCompile(`^gefs\.chem\.t(\d{2})z\.([a-z0-9]+)_(\dp\d{2})\.f(\d{3})$`)

	// waveRe matches "gefs.wave.t00z.p01.global.0p25.f000".
	waveRe = regexp.MustCompile(`^gefs\.wave\.t(\d{2})z\.(c00|p\d{2}|mean|spread)\.([a-z]+)\.(\dp\d{2})\.f(\d{3})$`)

	// dateDirRe finds the "gefs.YYYYMMDD" cycle directory in a path.
	dateDirRe = regexp.MustCompile(`gefs\.(\d{8})(?:/|$)`)
)

// gribExtensions are stripped from file names to build item IDs.
var gribExtensions = []string{".grib2", ".grb2", ".grib"}

// FileName holds what a GEFS file name says about its content.
type FileName struct {
	// Model is "atmos", "chem" or "wave".
	Model string
	// Member is the ensemble member ("c00", "p01", "avg", "spr", "mean",
	// "spread"); empty for aerosol files.
	Member       string
	Cycle        int
	Product      string
	Resolution   string
	ForecastHour int
	// Date is the cycle date from a "gefs.YYYYMMDD" directory; zero if absent.
	Date time.Time
}

// Perturbed reports whether the member is a perturbed ensemble member. The
// second result is false when the name carries no member.
func (f FileName) Perturbed() (bool, bool) {
	switch {
	case f.Member == "":
		return false, false
	case strings.HasPrefix(f.Member, "p"):
		return true, true
	default:
		return false, true
	}
}

// ParseFileName parses a GEFS file path. ok is false for names that do not
// follow any GEFS convention.
func ParseFileName(path string) (FileName, bool) {
	stem := Stem(path)
	var (
		f FileName
		m []string
	)

	switch {
	case atmosRe.MatchString(stem):
		m = atmosRe.FindStringSubmatch(stem)
		f = FileName{Model: "atmos", Member: m[1], Cycle: atoi(m[2]), Product: m[3], Resolution: m[4], ForecastHour: atoi(m[5])}
	case chemRe.MatchString(stem):
		m = chemRe.FindStringSubmatch(stem)
		f = FileName{Model: "chem", Cycle: atoi(m[1]), Product: m[2], Resolution: m[3], ForecastHour: atoi(m[4])}
	case waveRe.MatchString(stem):
		m = waveRe.FindStringSubmatch(stem)
		f = FileName{Model: "wave", Member: m[2], Cycle: atoi(m[1]), Product: m[3], Resolution: m[4], ForecastHour: atoi(m[5])}
	default:
		return FileName{}, false
	}

	if d := dateDirRe.FindStringSubmatch(filepath.ToSlash(path)); d != nil {
		if t, err := time.ParseInLocation("20060102", d[1], time.UTC); err == nil {
			f.Date = t
		}
	}
	return f, true
}

// Stem returns the base name of path without a GRIB extension.
func Stem(path string) string {
	base := filepath.Base(path)
	for _, ext := range gribExtensions {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

// ItemID returns the deterministic item ID for a source path and reference time.
func ItemID(path string, ref time.Time) string {
	return Stem(path) + "-" + ref.UTC().Format("20060102T1504Z")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
