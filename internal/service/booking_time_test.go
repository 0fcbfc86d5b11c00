package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreferredTime(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		wantErr bool
	}{
		{"10:15 AM", 10*60 + 15, false},
		{"10:30 AM", 10*60 + 30, false},
		{"12:00 AM", 0, false},
		{"12:30 PM", 12*60 + 30, false},
		{"1:05 pm", 13*60 + 5, false},
		{"11:45 PM", 23*60 + 45, false},
		{"14:45", 14*60 + 45, false},
		{"0:10", 10, false},
		{" 9:00 AM ", 9 * 60, false},
		{"25:00", 0, true},
		{"13:00 PM", 0, true},
		{"0:30 AM", 0, true},
		{"10:75", 0, true},
		{"10", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParsePreferredTime(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.minutes, got, "input %q", tc.in)
	}
}

func TestComputeWindow(t *testing.T) {
	w, err := ComputeWindow(10*60+15, 30)
	require.NoError(t, err)
	assert.Equal(t, "10:15:00", w.StartClock())
	assert.Equal(t, "10:45:00", w.EndClock())

	// A window may run up to the last minute of the day.
	w, err = ComputeWindow(23*60, 59)
	require.NoError(t, err)
	assert.Equal(t, "23:59:00", w.EndClock())
}

func TestComputeWindowRejectsCrossMidnight(t *testing.T) {
	_, err := ComputeWindow(23*60+30, 60)
	assert.Error(t, err)

	// Landing exactly on midnight is already past the day.
	_, err = ComputeWindow(23*60, 60)
	assert.Error(t, err)
}

func TestTimeWindowOverlaps(t *testing.T) {
	base := TimeWindow{Start: 600, End: 630} // 10:00-10:30

	cases := []struct {
		name  string
		other TimeWindow
		want  bool
	}{
		{"starts inside", TimeWindow{615, 645}, true},
		{"ends inside", TimeWindow{585, 615}, true},
		{"contains", TimeWindow{590, 640}, true},
		{"contained", TimeWindow{610, 620}, true},
		{"identical", TimeWindow{600, 630}, true},
		{"back to back after", TimeWindow{630, 645}, true},
		{"back to back before", TimeWindow{585, 600}, true},
		{"disjoint after", TimeWindow{631, 645}, false},
		{"disjoint before", TimeWindow{585, 599}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}
