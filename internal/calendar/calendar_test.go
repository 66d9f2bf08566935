package calendar

import (
	"testing"
	"time"
)

func madridDate(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	return time.Date(year, month, day, hour, min, 0, 0, Madrid().Location())
}

func TestStartOfWeek(t *testing.T) {
	cal := Madrid()

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "midweek",
			in:   madridDate(t, 2024, time.March, 28, 12, 0),
			want: madridDate(t, 2024, time.March, 25, 0, 0),
		},
		{
			name: "monday maps to itself",
			in:   madridDate(t, 2024, time.March, 25, 0, 0),
			want: madridDate(t, 2024, time.March, 25, 0, 0),
		},
		{
			name: "sunday late evening",
			in:   madridDate(t, 2024, time.March, 31, 23, 30),
			want: madridDate(t, 2024, time.March, 25, 0, 0),
		},
		{
			name: "year boundary sunday",
			in:   madridDate(t, 2023, time.December, 31, 12, 0),
			want: madridDate(t, 2023, time.December, 25, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cal.StartOfWeek(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("StartOfWeek(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeekIsHalfOpenAcrossDstStart(t *testing.T) {
	cal := Madrid()
	now := madridDate(t, 2024, time.March, 28, 12, 0)

	start := cal.StartOfWeek(now)
	end := cal.StartOfNextWeek(now)

	// DST starts March 31; the week still spans exactly 7 civil days.
	if want := madridDate(t, 2024, time.April, 1, 0, 0); !end.Equal(want) {
		t.Fatalf("StartOfNextWeek = %v, want %v", end, want)
	}
	if end.Sub(start) != 7*24*time.Hour-time.Hour {
		t.Errorf("DST-start week should be 167h, got %v", end.Sub(start))
	}

	inWeek := madridDate(t, 2024, time.March, 31, 23, 30)
	outOfWeek := madridDate(t, 2024, time.April, 1, 0, 30)
	if inWeek.Before(start) || !inWeek.Before(end) {
		t.Errorf("%v should be inside the week", inWeek)
	}
	if outOfWeek.Before(end) {
		t.Errorf("%v should be outside the week", outOfWeek)
	}
}

func TestWeekIsHalfOpenAcrossDstEnd(t *testing.T) {
	cal := Madrid()
	now := madridDate(t, 2024, time.October, 24, 12, 0)

	start := cal.StartOfWeek(now)
	end := cal.StartOfNextWeek(now)

	if want := madridDate(t, 2024, time.October, 21, 0, 0); !start.Equal(want) {
		t.Fatalf("StartOfWeek = %v, want %v", start, want)
	}
	if want := madridDate(t, 2024, time.October, 28, 0, 0); !end.Equal(want) {
		t.Fatalf("StartOfNextWeek = %v, want %v", end, want)
	}
	// DST ends October 27, so this week lasts 169 hours.
	if end.Sub(start) != 7*24*time.Hour+time.Hour {
		t.Errorf("DST-end week should be 169h, got %v", end.Sub(start))
	}

	sundayNight := madridDate(t, 2024, time.October, 27, 2, 30)
	if sundayNight.Before(start) || !sundayNight.Before(end) {
		t.Errorf("%v should be inside the week", sundayNight)
	}
}

func TestDaysBetween(t *testing.T) {
	cal := Madrid()

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "same day different hours",
			a:    madridDate(t, 2024, time.May, 10, 1, 0),
			b:    madridDate(t, 2024, time.May, 10, 23, 0),
			want: 0,
		},
		{
			name: "across dst start",
			a:    madridDate(t, 2024, time.March, 30, 12, 0),
			b:    madridDate(t, 2024, time.April, 2, 12, 0),
			want: 3,
		},
		{
			name: "negative when b earlier",
			a:    madridDate(t, 2024, time.May, 10, 0, 0),
			b:    madridDate(t, 2024, time.May, 8, 0, 0),
			want: -2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddDaysPreservesWallClock(t *testing.T) {
	cal := Madrid()
	in := madridDate(t, 2024, time.March, 30, 9, 30)
	got := cal.AddDays(in, 2)
	want := madridDate(t, 2024, time.April, 1, 9, 30)
	if !got.Equal(want) {
		t.Errorf("AddDays across DST = %v, want %v", got, want)
	}
}
