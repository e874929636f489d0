package sheets

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoMillis = "2006-01-02T15:04:05.000Z"

var calendarDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// ToRemote renders a local value as the text written into a remote cell.
// Clock columns stay verbatim text, the writer pins them to the text format.
func ToRemote(col string, v any) string {
	if t, ok := v.(time.Time); ok {
		if IsTimeColumn(col) {
			return t.Format("15:04")
		}
		return t.UTC().Format(isoMillis)
	}
	return textOf(v)
}

// FromRemote converts one cell read from the remote engine into its local
// value. v is either text or a time.Time for cells the engine holds as native
// dates. ok is false for blank cells, which must be left out of the record.
func FromRemote(col string, v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case time.Time:
		if IsTimeColumn(col) {
			return fmt.Sprintf("%02d:%02d", x.Hour(), x.Minute()), true
		}
		return x.UTC().Format(isoMillis), true
	}

	s := textOf(v)
	if strings.TrimSpace(s) == "" {
		return nil, false
	}

	switch {
	case IsNumericColumn(col):
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			if f == math.Trunc(f) {
				return int64(f), true
			}
			return f, true
		}
		return s, true
	case col == "date":
		return NormalizeDate(s), true
	default:
		return s, true
	}
}

// NormalizeDate reduces the date shapes the spreadsheet hands back to a plain
// YYYY-MM-DD. A full instant sitting on 17:00:00 UTC is local midnight of the
// next day in UTC+7, so it is moved forward before the date is taken.
func NormalizeDate(s string) string {
	if strings.Contains(s, "T") {
		if t, err := parseInstant(s); err == nil {
			t = t.UTC()
			if t.Hour() == 17 && t.Minute() == 0 && t.Second() == 0 {
				t = t.Add(7 * time.Hour)
			}
			return t.Format("2006-01-02")
		}
	}
	if calendarDatePrefix.MatchString(s) {
		return s[:10]
	}
	return s
}

// NormalizeClock keeps only HH:mm when a full timestamp leaked into a clock
// column.
func NormalizeClock(s string) string {
	i := strings.Index(s, "T")
	if i < 0 {
		return s
	}
	rest := s[i+1:]
	if len(rest) > 5 {
		return rest[:5]
	}
	return rest
}

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

func parseInstant(s string) (time.Time, error) {
	var err error
	for _, layout := range instantLayouts {
		var t time.Time
		if t, err = time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// RowRecord builds a record from one data row, locating every requested
// column by header name so reordered sheets still read correctly. A column
// missing from the header is left out. ok is false when the row carries no
// data in any requested column.
func RowRecord(header []string, row []any, columns []string) (Record, bool) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	rec := Record{}
	for _, col := range columns {
		i, found := index[strings.ToLower(col)]
		if !found || i >= len(row) {
			continue
		}
		if v, ok := FromRemote(col, row[i]); ok {
			rec[col] = v
		}
	}
	return rec, len(rec) > 0
}
