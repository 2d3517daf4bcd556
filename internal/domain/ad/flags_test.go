package ad

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveFlag_ScanAndValue(t *testing.T) {
	cases := []struct {
		src  any
		want bool
	}{
		{true, true},
		{false, false},
		{int64(1), true},
		{int64(0), false},
		{"true", true},
		{"false", false},
		{[]byte("true"), true},
		{nil, false},
	}
	for _, tc := range cases {
		var f ActiveFlag
		require.NoError(t, f.Scan(tc.src))
		assert.Equal(t, tc.want, f.Bool(), "%#v", tc.src)

		v, err := f.Value()
		require.NoError(t, err)
		assert.Equal(t, tc.want, v)
	}
}

func TestActiveFlag_JSON(t *testing.T) {
	var payload struct {
		IsActive ActiveFlag `json:"is_active"`
	}

	for raw, want := range map[string]bool{`true`: true, `1`: true, `"true"`: true, `false`: false, `0`: false, `"false"`: false} {
		require.NoError(t, json.Unmarshal([]byte(`{"is_active":`+raw+`}`), &payload))
		assert.Equal(t, want, payload.IsActive.Bool(), raw)

		out, err := json.Marshal(payload)
		require.NoError(t, err)
		if want {
			assert.JSONEq(t, `{"is_active":true}`, string(out))
		} else {
			assert.JSONEq(t, `{"is_active":false}`, string(out))
		}
	}
}

func TestTimestamp_Scan(t *testing.T) {
	want := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	for _, src := range []any{
		want,
		"2026-03-01T10:30:00Z",
		"2026-03-01 10:30:00+00:00",
		"2026-03-01 10:30:00+00",
		[]byte("2026-03-01 10:30:00"),
	} {
		var ts Timestamp
		require.NoError(t, ts.Scan(src))
		assert.True(t, ts.Valid, "%#v", src)
		assert.True(t, want.Equal(ts.Time), "%#v -> %v", src, ts.Time)
	}

	var bad Timestamp
	require.NoError(t, bad.Scan("yesterday-ish"))
	assert.False(t, bad.Valid)

	v, err := bad.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTimestamp_JSON(t *testing.T) {
	ts := NewTimestamp(time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC))
	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-01T10:30:00Z"`, string(out))

	var back Timestamp
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.Valid)
	assert.True(t, ts.Time.Equal(back.Time))

	out, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
