package timekey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormats(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	at := time.Date(2023, 7, 20, 17, 0, 0, 0, loc)
	assert.Equal(t, "2023-07-20_17-00-00", Canonical(at))
	assert.Equal(t, "07/20/2023 @ 05:00 PM", Readable(at))
}

func TestParseSelection(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	tests := []struct {
		name     string
		value    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "Canonical format",
			value:    "2023-11-09_17-00-00",
			expected: time.Date(2023, 11, 9, 17, 0, 0, 0, loc),
		},
		{
			name:     "Readable format",
			value:    "11/09/2023 @ 05:00 PM",
			expected: time.Date(2023, 11, 9, 17, 0, 0, 0, loc),
		},
		{
			name:     "Readable morning",
			value:    "01/02/2024 @ 09:30 AM",
			expected: time.Date(2024, 1, 2, 9, 30, 0, 0, loc),
		},
		{
			name:    "Unsupported format",
			value:   "2023-11-09 17:00:00",
			wantErr: true,
		},
		{
			name:    "Garbage",
			value:   "next thursday",
			wantErr: true,
		},
		{
			name:    "Empty",
			value:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelection(tt.value, loc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

// A canonical key must round-trip: parsing its own rendering yields the same
// instant, so shared links never drift.
func TestCanonicalRoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	at := time.Date(2023, 11, 16, 17, 0, 0, 0, loc)
	parsed, err := ParseSelection(Canonical(at), loc)
	require.NoError(t, err)
	assert.True(t, at.Equal(parsed))
}
