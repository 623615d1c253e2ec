package dbx

import (
	"fmt"
	"strings"
	"time"
)

// Time scans timestamp columns regardless of whether the driver hands back
// a time.Time (pgx) or text (sqlite).
type Time struct {
	time.Time
}

var textLayouts = []string{
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// Scan implements sql.Scanner.
func (t *Time) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("dbx.Time: unsupported source %T", src)
	}
}

func (t *Time) parse(s string) error {
	// time.Time.String appends the monotonic reading
	if i := strings.Index(s, " m="); i >= 0 {
		s = s[:i]
	}
	for _, layout := range textLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("dbx.Time: cannot parse %q", s)
}

// Stamp normalises a timestamp before it is written: UTC, microsecond
// precision (the finest Postgres keeps) and no monotonic reading.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
