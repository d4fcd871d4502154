package mlit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AnilDaoud/japan-realestate/config"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.MLITConfig{BaseURL: server.URL, APIKey: "test-key"}
	return NewClient(cfg, rate.NewLimiter(rate.Inf, 1))
}

func TestTransactionsDecodesRecords(t *testing.T) {
	var gotPath, gotKey string
	var gotQuery map[string][]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"data":[{"Type":"Pre-owned House","TradePrice":"35,000,000","MunicipalityCode":"13103"}]}`))
	})

	records, err := client.Transactions(context.Background(), &TransactionsQuery{
		Year: 2023, Area: "13", Quarter: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if gotPath != "/XIT001" {
		t.Errorf("path = %q, want /XIT001", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("subscription key header = %q", gotKey)
	}
	for param, want := range map[string]string{
		"year": "2023", "area": "13", "quarter": "1",
		"priceClassification": "01", "language": "en",
	} {
		if got := gotQuery[param]; len(got) != 1 || got[0] != want {
			t.Errorf("query %s = %v, want %s", param, got, want)
		}
	}

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Type != "Pre-owned House" || records[0].TradePrice != "35,000,000" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestTransactionsUnavailable(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := client.Transactions(context.Background(), &TransactionsQuery{Year: 2030, Area: "13"})
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("status %d: got %v, want ErrUnavailable", status, err)
		}
	}
}

func TestTransactionsTransientFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Transactions(context.Background(), &TransactionsQuery{Year: 2023, Area: "13"})
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Error("a 500 must not classify as Unavailable")
	}
}

func TestTransactionsEmptyPeriod(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})

	records, err := client.Transactions(context.Background(), &TransactionsQuery{Year: 2023, Area: "47"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestTransactionsRespectsLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	cfg := &config.MLITConfig{BaseURL: server.URL, APIKey: "test-key"}
	interval := 20 * time.Millisecond
	client := NewClient(cfg, rate.NewLimiter(rate.Every(interval), 1))

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := client.Transactions(context.Background(), &TransactionsQuery{Year: 2023, Area: "13"}); err != nil {
			t.Fatalf("request %d: %s", i, err)
		}
	}
	elapsed := time.Since(start)

	// First request is free (burst 1), the next two wait one interval each.
	if elapsed < 2*interval {
		t.Errorf("3 requests finished in %s, limiter should have stretched them past %s", elapsed, 2*interval)
	}
}

func TestTransactionsLimiterHonorsCancel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})
	client.limiter = rate.NewLimiter(rate.Every(time.Hour), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Transactions(ctx, &TransactionsQuery{Year: 2023, Area: "13"})
	if err == nil {
		t.Fatal("expected an error when the context expires while waiting on the limiter")
	}
}
