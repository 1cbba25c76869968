/**
 * @description
 * Timestamp helpers for the Monzo wire format.
 *
 * Requests always carry second-resolution UTC timestamps ("2015-04-05T18:01:32Z").
 * Responses are less uniform: pots report milliseconds, some list payloads
 * report `settled: true` instead of a time. Formatting and parsing are therefore
 * separate routines, and formatting is lossy below one second.
 */
package monzo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// wireTimeLayout is the layout used for every timestamp the client sends.
const wireTimeLayout = "2006-01-02T15:04:05Z"

// FormatTime renders t in UTC with second resolution and a literal Z suffix.
// Sub-second precision is dropped, so a value that went through the server
// and back compares equal only at the second level.
func FormatTime(t time.Time) string {
	return t.UTC().Format(wireTimeLayout)
}

// ParseTime reads an RFC 3339 timestamp with optional fractional seconds.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// Timestamp is a time.Time that tolerates the shapes the API returns for
// time fields. null, "" and booleans decode to the zero time; any other
// non-string value is an error.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "true", "false":
		t.Time = time.Time{}
		return nil
	}
	if len(data) == 0 || data[0] != '"' {
		return fmt.Errorf("invalid timestamp %s: expected a string", data)
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
