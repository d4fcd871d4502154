package mlit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/AnilDaoud/japan-realestate/config"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const transactionsEndpoint = "/XIT001"

// ErrUnavailable means the requested period has not been published by the
// API (HTTP 400 or 404). It is an expected outcome, not a failure: callers
// must skip the period without retrying.
var ErrUnavailable = errors.New("mlit: data not available for requested period")

// Client fetches transaction records from the MLIT Real Estate Information
// Library API. All requests pass through a shared rate limiter so the
// aggregate request rate stays bounded regardless of caller concurrency.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a client for the configured API endpoint. The limiter is
// constructed once per process and injected so that concurrent users of the
// client share a single request budget.
func NewClient(cfg *config.MLITConfig, limiter *rate.Limiter) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    limiter,
	}
}

// TransactionsQuery holds the request parameters for the transactions
// endpoint. Year and Area are required, the rest are optional refinements.
type TransactionsQuery struct {
	Year    int
	Area    string // prefecture code, e.g. "13"
	Quarter int    // 1-4, 0 fetches the whole year
	City    string // municipality code, e.g. "13103"
	Station string

	// "01" for transaction prices, "02" for closed contract prices.
	// Defaults to "01".
	PriceClassification string
	Language            string // "en" or "ja", defaults to "en"
}

func (q *TransactionsQuery) values() url.Values {
	params := url.Values{}
	params.Set("year", strconv.Itoa(q.Year))
	params.Set("area", q.Area)

	priceClassification := q.PriceClassification
	if priceClassification == "" {
		priceClassification = "01"
	}
	params.Set("priceClassification", priceClassification)

	language := q.Language
	if language == "" {
		language = "en"
	}
	params.Set("language", language)

	if q.Quarter > 0 {
		params.Set("quarter", strconv.Itoa(q.Quarter))
	}
	if q.City != "" {
		params.Set("city", q.City)
	}
	if q.Station != "" {
		params.Set("station", q.Station)
	}

	return params
}

type transactionsResponse struct {
	Data []RawTransaction `json:"data"`
}

// Transactions fetches the records for one query. It returns ErrUnavailable
// when the API signals that the period is not published (400/404); any other
// non-2xx status or transport error is a transient failure the caller may
// retry. An empty slice with nil error means the period is published but
// contains no records.
func (c *Client) Transactions(ctx context.Context, query *TransactionsQuery) ([]RawTransaction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "Transactions: limiter.Wait")
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, transactionsEndpoint, query.values().Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "Transactions: NewRequest")
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "Transactions: request failed")
	}
	defer resp.Body.Close()

	// 400 = invalid period, 404 = not yet published. Both are a valid
	// "nothing here" answer, not an error.
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, ErrUnavailable
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("Transactions: unexpected status %d", resp.StatusCode)
	}

	var decoded transactionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "Transactions: decoding response")
	}

	return decoded.Data, nil
}
