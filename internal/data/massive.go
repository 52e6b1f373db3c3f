package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/contactkeval/option-calc/internal/logger"
)

const massiveBaseURL = "https://api.massive.com"

// massiveDataProvider fetches daily aggregates from the Massive (formerly
// Polygon) REST API.
type massiveDataProvider struct {
	apiKey    string
	client    *resty.Client
	secondary Provider
}

// massiveAggsResp models the aggregates endpoint response.
type massiveAggsResp struct {
	Ticker   string `json:"ticker"`
	Adjusted bool   `json:"adjusted"`
	Results  []struct {
		Open      float64 `json:"o"`
		Close     float64 `json:"c"`
		High      float64 `json:"h"`
		Low       float64 `json:"l"`
		Volume    float64 `json:"v"`
		Timestamp int64   `json:"t"` // epoch millis
	} `json:"results"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewMassiveDataProvider constructs a Massive-backed provider. Rate-limited
// responses (429) are retried; any other failure is handed to secondary when
// one is configured.
//
// Parameters:
//   - apiKey: Massive API key
//   - secondary: optional fallback provider, may be nil
func NewMassiveDataProvider(apiKey string, secondary Provider) *massiveDataProvider {
	logger.Infof("initializing Massive data provider")

	client := resty.New().
		SetBaseURL(massiveBaseURL).
		SetTimeout(60*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "option-calc/1.0").
		SetRetryCount(3).
		SetRetryWaitTime(5 * time.Second).
		SetRetryMaxWaitTime(time.Minute).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if r != nil && r.StatusCode() == http.StatusTooManyRequests {
				logger.Infof("rate limit hit, retrying")
				return true
			}
			return false
		})

	return &massiveDataProvider{apiKey: apiKey, client: client, secondary: secondary}
}

func (massiveDataProv *massiveDataProvider) Name() string { return "massive" }

// Secondary returns the configured fallback provider, if any.
func (massiveDataProv *massiveDataProvider) Secondary() Provider {
	return massiveDataProv.secondary
}

// GetBars retrieves daily OHLCV bars for ticker between fromDate and toDate
// inclusive, ordered by date.
func (massiveDataProv *massiveDataProvider) GetBars(ctx context.Context, ticker string, fromDate, toDate time.Time) ([]Bar, error) {
	bars, err := massiveDataProv.fetchBars(ctx, ticker, fromDate, toDate)
	if err != nil && massiveDataProv.secondary != nil {
		logger.Errorf("massive bars for %s failed: %v; using %s", ticker, err, massiveDataProv.secondary.Name())
		return massiveDataProv.secondary.GetBars(ctx, ticker, fromDate, toDate)
	}
	return bars, err
}

func (massiveDataProv *massiveDataProvider) fetchBars(ctx context.Context, ticker string, fromDate, toDate time.Time) ([]Bar, error) {
	logger.Debugf("fetching bars: %s from=%s to=%s", ticker,
		fromDate.Format(dateLayout), toDate.Format(dateLayout))

	resp, err := massiveDataProv.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+massiveDataProv.apiKey).
		SetPathParams(map[string]string{
			"ticker": strings.ToUpper(ticker),
			"from":   fromDate.Format(dateLayout),
			"to":     toDate.Format(dateLayout),
		}).
		SetQueryParams(map[string]string{
			"adjusted": "true",
			"sort":     "asc",
			"limit":    "50000",
			"apiKey":   massiveDataProv.apiKey,
		}).
		Get("/v2/aggs/ticker/{ticker}/range/1/day/{from}/{to}")
	if err != nil {
		return nil, fmt.Errorf("massive api request failed: %w", err)
	}

	var body massiveAggsResp
	if resp.IsError() {
		_ = json.Unmarshal(resp.Body(), &body)
		return nil, fmt.Errorf("massive daily bars status=%d message=%q", resp.StatusCode(), body.Message)
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("parsing massive response: %w", err)
	}

	logger.Tracef("bars received: %d records", len(body.Results))

	out := make([]Bar, 0, len(body.Results))
	for _, r := range body.Results {
		out = append(out, Bar{
			Date:  time.UnixMilli(r.Timestamp).UTC(),
			Open:  r.Open,
			High:  r.High,
			Low:   r.Low,
			Close: r.Close,
			Vol:   r.Volume,
		})
	}
	return out, nil
}
