package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ISOLayout is the canonical timestamp rendering: UTC, millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Timestamp is a point in time that decodes from either an ISO-8601 string
// or a document-store object of the form {"_seconds": n, "_nanoseconds": n}
// and always encodes as an ISO-8601 UTC string.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t, normalized to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// TimestampPtr returns a pointer to a new Timestamp for t.
func TimestampPtr(t time.Time) *Timestamp {
	ts := NewTimestamp(t)
	return &ts
}

// ISO returns the canonical string form, or "" for the zero value.
func (t Timestamp) ISO() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(ISOLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.ISO())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	parsed, err := ParseTimestamp(data)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type storeTimestamp struct {
	Seconds      *int64 `json:"_seconds"`
	Nanoseconds  int64  `json:"_nanoseconds"`
	PlainSeconds *int64 `json:"seconds"`
	PlainNanos   int64  `json:"nanoseconds"`
}

// ParseTimestamp decodes a raw JSON value holding either timestamp form.
// JSON null and the empty string decode to the zero Timestamp.
func ParseTimestamp(data []byte) (Timestamp, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Timestamp{}, nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return Timestamp{}, fmt.Errorf("decoding timestamp string: %w", err)
		}
		return ParseTimestampString(s)
	case '{':
		var st storeTimestamp
		if err := json.Unmarshal(data, &st); err != nil {
			return Timestamp{}, fmt.Errorf("decoding timestamp object: %w", err)
		}
		switch {
		case st.Seconds != nil:
			return NewTimestamp(time.Unix(*st.Seconds, st.Nanoseconds)), nil
		case st.PlainSeconds != nil:
			return NewTimestamp(time.Unix(*st.PlainSeconds, st.PlainNanos)), nil
		}
		return Timestamp{}, fmt.Errorf("timestamp object without seconds: %s", data)
	}
	return Timestamp{}, fmt.Errorf("unsupported timestamp value: %s", data)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestampString parses the string forms accepted for a Timestamp.
func ParseTimestampString(s string) (Timestamp, error) {
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimestamp(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}
