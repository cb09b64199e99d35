package stac

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Duration is a time span serialised as an ISO 8601 duration using day,
// hour, minute and second designators only, e.g. "P0D", "PT6H", "P1DT12H".
type Duration time.Duration

// durationRe matches the subset of ISO 8601 produced by Duration.String,
// plus week designators.
var durationRe = regexp.MustCompile(`^(-)?P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// NewDuration returns a *Duration for d.
func NewDuration(d time.Duration) *Duration {
	v := Duration(d)
	return &v
}

// String formats the duration. Zero is "P0D".
func (d Duration) String() string {
	v := time.Duration(d)
	if v == 0 {
		return "P0D"
	}

	var sb strings.Builder
	if v < 0 {
		sb.WriteByte('-')
		v = -v
	}
	sb.WriteByte('P')

	day := 24 * time.Hour
	if days := v / day; days > 0 {
		sb.WriteString(strconv.FormatInt(int64(days), 10) + "D")
		v -= days * day
	}
	if v == 0 {
		return sb.String()
	}

	sb.WriteByte('T')
	if h := v / time.Hour; h > 0 {
		sb.WriteString(strconv.FormatInt(int64(h), 10) + "H")
		v -= h * time.Hour
	}
	if m := v / time.Minute; m > 0 {
		sb.WriteString(strconv.FormatInt(int64(m), 10) + "M")
		v -= m * time.Minute
	}
	if v > 0 {
		sb.WriteString(strconv.FormatFloat(v.Seconds(), 'f', -1, 64) + "S")
	}
	return sb.String()
}

// MarshalJSON writes the ISO 8601 form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON reads the ISO 8601 form.
func (d *Duration) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDuration parses week, day, hour, minute and second designators.
// Year and month designators are rejected because their length is calendar dependent.
func ParseDuration(s string) (Duration, error) {
	m := durationRe.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "-P" || strings.HasSuffix(s, "T") {
		return 0, fmt.Errorf("duration %q: %w", s, errInvalidDuration)
	}

	var total time.Duration
	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute}
	for i, unit := range units {
		if m[i+2] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+2], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("duration %q: %w", s, err)
		}
		total += time.Duration(n) * unit
	}
	if m[6] != "" {
		secs, err := strconv.ParseFloat(m[6], 64)
		if err != nil {
			return 0, fmt.Errorf("duration %q: %w", s, err)
		}
		total += time.Duration(secs * float64(time.Second))
	}
	if m[1] == "-" {
		total = -total
	}
	return Duration(total), nil
}

var errInvalidDuration = errors.New("invalid ISO 8601 duration")
