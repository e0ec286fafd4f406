package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTimeAcceptsDateAndLocalLayouts(t *testing.T) {
	cases := map[string]time.Time{
		`"2025-10-01"`:                time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		`" 2025-10-01 "`:              time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		`"2025-10-01T09:30:00"`:       time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC),
		`"2025-10-01 09:30:00"`:       time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC),
		`"2025-10-01T09:30:00Z"`:      time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC),
		`"2025-10-01T09:30:00.5Z"`:    time.Date(2025, 10, 1, 9, 30, 0, 5e8, time.UTC),
		`"2025-10-01T11:30:00+02:00"`: time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			var d DateTime
			require.NoError(t, json.Unmarshal([]byte(in), &d))
			assert.True(t, want.Equal(d.Time), "got %s", d.Time)
		})
	}
}

func TestDateTimeRejectsOtherInput(t *testing.T) {
	for _, in := range []string{`"01/10/2025"`, `""`, `"tomorrow"`, `42`} {
		var d DateTime
		assert.Error(t, json.Unmarshal([]byte(in), &d), in)
	}
}

func TestDateTimeMarshalsAsRFC3339(t *testing.T) {
	b, err := json.Marshal(DateTime{time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2025-10-01T00:00:00Z"`, string(b))
}
