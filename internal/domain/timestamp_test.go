package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_StoreObjectAndISOStringAgree(t *testing.T) {
	var fromObject, fromString Timestamp
	require.NoError(t, json.Unmarshal([]byte(`{"_seconds":1700000000,"_nanoseconds":123000000}`), &fromObject))
	require.NoError(t, json.Unmarshal([]byte(`"2023-11-14T22:13:20.123Z"`), &fromString))

	assert.Equal(t, "2023-11-14T22:13:20.123Z", fromObject.ISO())
	assert.Equal(t, fromString.ISO(), fromObject.ISO())
}

func TestTimestamp_PlainSecondsObject(t *testing.T) {
	ts, err := ParseTimestamp([]byte(`{"seconds":1700000000,"nanoseconds":0}`))
	require.NoError(t, err)
	assert.Equal(t, "2023-11-14T22:13:20.000Z", ts.ISO())
}

func TestTimestamp_OffsetStringNormalizedToUTC(t *testing.T) {
	ts, err := ParseTimestampString("2024-03-01T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T08:00:00.000Z", ts.ISO())
}

func TestTimestamp_DateOnly(t *testing.T) {
	ts, err := ParseTimestampString("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T00:00:00.000Z", ts.ISO())
}

func TestTimestamp_NullAndZero(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestTimestamp_RejectsGarbage(t *testing.T) {
	_, err := ParseTimestamp([]byte(`"yesterday-ish"`))
	assert.Error(t, err)

	_, err = ParseTimestamp([]byte(`{"foo":1}`))
	assert.Error(t, err)

	_, err = ParseTimestamp([]byte(`42`))
	assert.Error(t, err)
}

func TestTimestamp_MarshalRoundTripInsideDocument(t *testing.T) {
	type doc struct {
		At  Timestamp  `json:"at"`
		Opt *Timestamp `json:"opt,omitempty"`
	}
	in := doc{At: NewTimestamp(time.Date(2024, 5, 6, 7, 8, 9, 555_000_000, time.UTC))}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-05-06T07:08:09.555Z"}`, string(data))

	var out doc
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, in.At.Equal(out.At.Time))
	assert.Nil(t, out.Opt)
}
