package fx

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
)

// fakeRateSource records the dates it was asked for and serves rates from a
// fixed calendar.
type fakeRateSource struct {
	rates map[string]float64 // keyed by YYYY-MM-DD
	calls []time.Time
}

func (f *fakeRateSource) Rate(_ context.Context, date time.Time, _ string) (float64, error) {
	f.calls = append(f.calls, date)
	value, ok := f.rates[date.Format("2006-01-02")]
	if !ok {
		return 0, ErrDateUnavailable
	}
	return value, nil
}

func TestFetchWithFallbackUsesPriorDay(t *testing.T) {
	// 2023-01-15 was a Sunday; the rate exists only for the prior day.
	source := &fakeRateSource{rates: map[string]float64{"2023-01-14": 0.0076}}
	backfiller := NewBackfiller(nil, source, []string{"USD"})

	requested := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	value, usedDate, err := backfiller.fetchWithFallback(context.Background(), requested, "USD")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if value != 0.0076 {
		t.Errorf("rate = %v, want 0.0076", value)
	}
	if usedDate.Format("2006-01-02") != "2023-01-14" {
		t.Errorf("used date = %s, want the prior day", usedDate.Format("2006-01-02"))
	}
	if len(source.calls) != 2 {
		t.Errorf("made %d fetches, want 2", len(source.calls))
	}
}

func TestFetchWithFallbackStopsAfterOneRetry(t *testing.T) {
	source := &fakeRateSource{} // no rates at all
	backfiller := NewBackfiller(nil, source, []string{"USD"})

	requested := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	_, _, err := backfiller.fetchWithFallback(context.Background(), requested, "USD")
	if !errors.Is(err, ErrDateUnavailable) {
		t.Fatalf("got %v, want ErrDateUnavailable", err)
	}

	// One probe for the requested date, exactly one for the prior day, no
	// open-ended walk into the past.
	if len(source.calls) != 2 {
		t.Errorf("made %d fetches, want 2", len(source.calls))
	}
}

func TestPeriodsSince(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC) // Q2 2024

	periods := periodsSince(2023, now)

	want := []period{
		{2023, 1}, {2023, 2}, {2023, 3}, {2023, 4},
		{2024, 1}, {2024, 2},
	}
	if len(periods) != len(want) {
		t.Fatalf("got %d periods, want %d", len(periods), len(want))
	}
	for i := range want {
		if periods[i] != want[i] {
			t.Errorf("period[%d] = %v, want %v", i, periods[i], want[i])
		}
	}
}

func TestRepresentativeDate(t *testing.T) {
	tests := []struct {
		quarter int
		want    string
	}{
		{1, "2023-02-15"},
		{2, "2023-05-15"},
		{3, "2023-08-15"},
		{4, "2023-11-15"},
	}

	for _, tc := range tests {
		got := representativeDate(2023, tc.quarter).Format("2006-01-02")
		if got != tc.want {
			t.Errorf("representativeDate(2023, Q%d) = %s, want %s", tc.quarter, got, tc.want)
		}
	}
}
