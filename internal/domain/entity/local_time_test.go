package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocalTime(t *testing.T) {
	lt, err := ParseLocalTime("08:30")
	require.NoError(t, err)
	assert.Equal(t, 510, lt.Minutes())
	assert.Equal(t, "08:30", lt.String())

	for _, bad := range []string{"8:30am", "25:00", "12:60", "noon", ""} {
		_, err := ParseLocalTime(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestLocalTimeArithmetic(t *testing.T) {
	nine := MustLocalTime("09:00")
	assert.Equal(t, "09:30", nine.AddMinutes(30).String())
	assert.Equal(t, 60, MustLocalTime("10:00").Sub(nine))
	assert.True(t, nine.Before(MustLocalTime("09:01")))
	assert.True(t, MustLocalTime("09:01").After(nine))
	assert.True(t, nine.Equal(MustLocalTime("09:00")))

	// clamped at end of day, never wraps
	assert.Equal(t, "24:00", MustLocalTime("23:30").AddMinutes(90).String())
}

func TestLocalTimeScan(t *testing.T) {
	var lt LocalTime
	require.NoError(t, lt.Scan("14:45:00")) // postgres time column format
	assert.Equal(t, "14:45", lt.String())

	require.NoError(t, lt.Scan([]byte("07:15")))
	assert.Equal(t, "07:15", lt.String())

	require.NoError(t, lt.Scan(nil))
	assert.True(t, lt.IsZero())

	assert.Error(t, lt.Scan(42))
}

func TestLocalTimeJSONRoundTrip(t *testing.T) {
	type payload struct {
		At LocalTime `json:"at"`
	}
	data, err := json.Marshal(payload{At: MustLocalTime("16:05")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"16:05"}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"at":"16:05"}`), &decoded))
	assert.Equal(t, "16:05", decoded.At.String())

	assert.Error(t, json.Unmarshal([]byte(`{"at":"later"}`), &decoded))
}
