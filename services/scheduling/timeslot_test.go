package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinuteOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:00", 0, true},
		{"12:3a", 0, true},
		{"12-30", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseMinuteOfDay(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestFormatMinuteOfDayRoundTrip(t *testing.T) {
	for _, minute := range []int{0, 1, 60, 570, 1439} {
		parsed, err := ParseMinuteOfDay(FormatMinuteOfDay(minute))
		require.NoError(t, err)
		assert.Equal(t, minute, parsed)
	}
}

func TestIntervalOverlaps(t *testing.T) {
	base := Interval{Start: 60, End: 120}

	assert.True(t, base.Overlaps(Interval{Start: 90, End: 150}))
	assert.True(t, base.Overlaps(Interval{Start: 0, End: 61}))
	assert.True(t, base.Overlaps(base))

	// Half-open: touching endpoints do not overlap.
	assert.False(t, base.Overlaps(Interval{Start: 120, End: 180}))
	assert.False(t, base.Overlaps(Interval{Start: 0, End: 60}))
}

func TestIntervalContains(t *testing.T) {
	base := Interval{Start: 540, End: 720}

	assert.True(t, base.Contains(Interval{Start: 540, End: 600}))
	assert.True(t, base.Contains(base))
	assert.False(t, base.Contains(Interval{Start: 500, End: 600}))
	assert.False(t, base.Contains(Interval{Start: 700, End: 721}))
}

func TestIntervalIntersect(t *testing.T) {
	got, ok := Interval{Start: 60, End: 120}.Intersect(Interval{Start: 90, End: 180})
	require.True(t, ok)
	assert.Equal(t, Interval{Start: 90, End: 120}, got)

	_, ok = Interval{Start: 60, End: 120}.Intersect(Interval{Start: 120, End: 180})
	assert.False(t, ok)
}

func TestIntervalSubtract(t *testing.T) {
	base := Interval{Start: 540, End: 720}

	assert.Equal(t, []Interval{base}, base.Subtract(Interval{Start: 720, End: 780}))
	assert.Equal(t,
		[]Interval{{Start: 540, End: 600}, {Start: 660, End: 720}},
		base.Subtract(Interval{Start: 600, End: 660}))
	assert.Empty(t, base.Subtract(Interval{Start: 500, End: 800}))
	assert.Equal(t,
		[]Interval{{Start: 600, End: 720}},
		base.Subtract(Interval{Start: 500, End: 600}))
}

func TestDateHelpers(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	dt, err := ToDatetime("2026-09-07", 570, ny)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-07", DateOf(dt, ny))
	assert.Equal(t, 570, MinuteOfDay(dt, ny))

	// The same instant falls on the same calendar date in UTC only by
	// coincidence; late evening local time rolls over.
	late, err := ToDatetime("2026-09-07", 23*60, ny)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-08", DateOf(late, time.UTC))

	_, err = ParseDate("07-09-2026", time.UTC)
	assert.Error(t, err)

	dow, err := DayOfWeek("2026-09-07", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, dow) // Monday
}
