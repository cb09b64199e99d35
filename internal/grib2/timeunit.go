package grib2

import "time"

// unitDurations maps fixed-length codes of table 4.4 to their duration.
var unitDurations = map[uint8]time.Duration{
	0:  time.Minute,
	1:  time.Hour,
	2:  24 * time.Hour,
	10: 3 * time.Hour,
	11: 6 * time.Hour,
	12: 12 * time.Hour,
	13: time.Second,
}

// calendarUnit reports whether the table 4.4 code is month-based
// (month, year, decade, normal, century).
func calendarUnit(unit uint8) bool {
	return unit >= 3 && unit <= 7
}

// addTimeUnits advances t by n units of code table 4.4.
func addTimeUnits(t time.Time, unit uint8, n int64) (time.Time, bool) {
	if d, ok := unitDurations[unit]; ok {
		return t.Add(time.Duration(n) * d), true
	}
	months := map[uint8]int64{3: 1, 4: 12, 5: 120, 6: 360, 7: 1200}
	if m, ok := months[unit]; ok {
		return t.AddDate(0, int(n*m), 0), true
	}
	return t, false
}
