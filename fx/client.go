package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AnilDaoud/japan-realestate/config"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// BaseCurrency is the source currency for every stored rate.
const BaseCurrency = "JPY"

// ErrDateUnavailable means the FX source has no rate for the requested date,
// which happens on weekends and holidays. Callers fall back to an adjacent
// trading day instead of retrying.
var ErrDateUnavailable = errors.New("fx: no rate published for requested date")

// Client fetches historical exchange rates from the Frankfurter API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg *config.FXConfig, limiter *rate.Limiter) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    limiter,
	}
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Rate returns the BaseCurrency→currency rate for one calendar date.
// ErrDateUnavailable marks non-trading dates; other errors are transient.
func (c *Client) Rate(ctx context.Context, date time.Time, currency string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, errors.Wrap(err, "Rate: limiter.Wait")
	}

	reqURL := fmt.Sprintf("%s/%s?from=%s&to=%s", c.baseURL, date.Format("2006-01-02"), BaseCurrency, currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, errors.Wrap(err, "Rate: NewRequest")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "Rate: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return 0, ErrDateUnavailable
	}

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("Rate: unexpected status %d", resp.StatusCode)
	}

	var decoded ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, errors.Wrap(err, "Rate: decoding response")
	}

	value, ok := decoded.Rates[currency]
	if !ok {
		return 0, errors.Errorf("Rate: no %s rate in response", currency)
	}

	return value, nil
}
