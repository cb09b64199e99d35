package grib2

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// IndexEntry is one line of a wgrib2-style ".idx" sidecar, e.g.
//
//	3:72011:d=2022081600:TMP:2 m above ground:6 hour fcst:ENS=+1
type IndexEntry struct {
	Record        string // "3" or "3.2" for sub-messages
	Offset        int64
	ReferenceTime time.Time
	Variable      string
	Level         string
	Forecast      string
	Extra         string
}

// ReadIndex parses the sidecar file at path.
func ReadIndex(path string) ([]IndexEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseIndex(f)
}

// ParseIndex parses sidecar lines. Blank lines are ignored.
func ParseIndex(r io.Reader) ([]IndexEntry, error) {
	var entries []IndexEntry
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		entry, err := parseIndexLine(text)
		if err != nil {
			return nil, fmt.Errorf("index line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return entries, nil
}

func parseIndexLine(text string) (IndexEntry, error) {
	parts := strings.SplitN(text, ":", 7)
	if len(parts) < 6 {
		return IndexEntry{}, fmt.Errorf("expected at least 6 fields, got %d", len(parts))
	}

	offset, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return IndexEntry{}, fmt.Errorf("offset %q: %w", parts[1], err)
	}

	date, ok := strings.CutPrefix(parts[2], "d=")
	if !ok {
		return IndexEntry{}, fmt.Errorf("date field %q missing d= prefix", parts[2])
	}
	ref, err := time.ParseInLocation("2006010215", date, time.UTC)
	if err != nil {
		return IndexEntry{}, fmt.Errorf("date %q: %w", date, err)
	}

	entry := IndexEntry{
		Record:        parts[0],
		Offset:        offset,
		ReferenceTime: ref,
		Variable:      parts[3],
		Level:         parts[4],
		Forecast:      parts[5],
	}
	if len(parts) == 7 {
		entry.Extra = strings.TrimSuffix(parts[6], ":")
	}
	return entry, nil
}
