package news

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Timestamp is a point in time that always serialises as RFC 3339 and
// never fails to decode: anything unparseable becomes FarPast.
type Timestamp struct {
	time.Time
}

// At wraps t as a Timestamp in UTC.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// ParseTimestamp parses the many date shapes newsletters publish
// (ISO 8601 with or without milliseconds, RFC 1123, plain dates).
func ParseTimestamp(raw string) Timestamp {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return At(FarPast)
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return At(t)
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return At(FarPast)
	}
	return At(t)
}

// IsKnown reports whether the timestamp carries a real date.
func (ts Timestamp) IsKnown() bool {
	return !ts.IsZero() && ts.After(FarPast)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	t := ts.Time
	if t.IsZero() {
		t = FarPast
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// numbers, nulls and objects are not dates
		*ts = At(FarPast)
		return nil
	}
	*ts = ParseTimestamp(raw)
	return nil
}
