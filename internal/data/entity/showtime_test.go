package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShowtimeOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC)
	showtime := &Showtime{
		StartTime: base,
		EndTime:   base.Add(2 * time.Hour),
	}

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical interval", base, base.Add(2 * time.Hour), true},
		{"contained", base.Add(30 * time.Minute), base.Add(time.Hour), true},
		{"containing", base.Add(-time.Hour), base.Add(3 * time.Hour), true},
		{"overlaps start", base.Add(-time.Hour), base.Add(time.Hour), true},
		{"overlaps end", base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"back to back before", base.Add(-2 * time.Hour), base, false},
		{"back to back after", base.Add(2 * time.Hour), base.Add(4 * time.Hour), false},
		{"well before", base.Add(-4 * time.Hour), base.Add(-3 * time.Hour), false},
		{"well after", base.Add(5 * time.Hour), base.Add(6 * time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, showtime.Overlaps(tc.start, tc.end))
		})
	}
}
