package interval

import (
	"testing"
	"time"

	"stopshot/pkg/model"
)

func at(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", s, time.UTC)
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return ts
}

func span(t *testing.T, from, to string) Interval {
	return Interval{Start: at(t, from), End: at(t, to)}
}

func TestCompute_CrossesMidnight(t *testing.T) {
	date := model.Date{Year: 2025, Month: time.June, Day: 1}
	iv := Compute(date, model.MustParseTimeOfDay("23:00"), 2*time.Hour, time.UTC)

	if !iv.Start.Equal(at(t, "2025-06-01 23:00")) {
		t.Errorf("Start = %v", iv.Start)
	}
	if !iv.End.Equal(at(t, "2025-06-02 01:00")) {
		t.Errorf("End = %v, want 2025-06-02 01:00", iv.End)
	}
}

func TestCompute_UsesLocation(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	date := model.Date{Year: 2025, Month: time.June, Day: 1}
	iv := Compute(date, model.MustParseTimeOfDay("18:00"), time.Hour, manila)

	if got := iv.Start.UTC(); !got.Equal(at(t, "2025-06-01 10:00")) {
		t.Errorf("Start in UTC = %v, want 10:00", got)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"partial overlap", span(t, "2025-06-01 18:00", "2025-06-01 19:00"), span(t, "2025-06-01 18:30", "2025-06-01 19:30"), true},
		{"touching", span(t, "2025-06-01 10:00", "2025-06-01 11:00"), span(t, "2025-06-01 11:00", "2025-06-01 12:00"), false},
		{"contained", span(t, "2025-06-01 16:00", "2025-06-01 23:00"), span(t, "2025-06-01 18:00", "2025-06-01 19:00"), true},
		{"identical", span(t, "2025-06-01 18:00", "2025-06-01 19:00"), span(t, "2025-06-01 18:00", "2025-06-01 19:00"), true},
		{"disjoint", span(t, "2025-06-01 16:00", "2025-06-01 17:00"), span(t, "2025-06-01 20:00", "2025-06-01 21:00"), false},
		{"across midnight", span(t, "2025-06-01 23:00", "2025-06-02 01:00"), span(t, "2025-06-02 00:30", "2025-06-02 01:30"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps(a, b) = %v, want %v", got, tt.want)
			}
			if Overlaps(tt.a, tt.b) != Overlaps(tt.b, tt.a) {
				t.Error("Overlaps must be symmetric")
			}
		})
	}
}

func TestClipToWindow(t *testing.T) {
	windowStart := at(t, "2025-06-01 16:00")
	windowEnd := at(t, "2025-06-02 01:00")

	tests := []struct {
		name string
		iv   Interval
		want time.Duration
	}{
		{"fully inside", span(t, "2025-06-01 18:00", "2025-06-01 21:00"), 3 * time.Hour},
		{"spills past close", span(t, "2025-06-02 00:00", "2025-06-02 02:00"), time.Hour},
		{"starts before open", span(t, "2025-06-01 15:00", "2025-06-01 17:00"), time.Hour},
		{"cross midnight", span(t, "2025-06-01 23:00", "2025-06-02 01:00"), 2 * time.Hour},
		{"disjoint", span(t, "2025-06-01 10:00", "2025-06-01 12:00"), 0},
		{"touching open", span(t, "2025-06-01 15:00", "2025-06-01 16:00"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClipToWindow(tt.iv, windowStart, windowEnd); got != tt.want {
				t.Errorf("ClipToWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBusinessDay(t *testing.T) {
	date := model.Date{Year: 2025, Month: time.June, Day: 1}

	overnight := BusinessDay(date, model.MustParseTimeOfDay("16:00"), model.MustParseTimeOfDay("01:00"), time.UTC)
	if !overnight.Start.Equal(at(t, "2025-06-01 16:00")) || !overnight.End.Equal(at(t, "2025-06-02 01:00")) {
		t.Errorf("overnight window = %v - %v", overnight.Start, overnight.End)
	}
	if overnight.Duration() != 9*time.Hour {
		t.Errorf("overnight duration = %v, want 9h", overnight.Duration())
	}

	sameDay := BusinessDay(date, model.MustParseTimeOfDay("10:00"), model.MustParseTimeOfDay("22:00"), time.UTC)
	if sameDay.Duration() != 12*time.Hour {
		t.Errorf("same-day duration = %v, want 12h", sameDay.Duration())
	}
}
