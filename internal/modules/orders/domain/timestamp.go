package domain

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Timestamp decodes the timestamp shapes the store may return, with or without
// a zone offset, and always encodes as RFC 3339.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return Timestamp{Time: parsed}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Time.Format(time.RFC3339Nano) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	parsed, err := ParseTimestamp(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
