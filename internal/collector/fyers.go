package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"SwingSentinel/internal/model"
)

// FyersFetcher implements Fetcher against the FYERS-style data REST API.
type FyersFetcher struct {
	BaseURL string
	AppID   string
	Token   string
	Client  *http.Client
}

// NewFyersFetcher creates a new fetcher. Requests are bounded by the client timeout.
func NewFyersFetcher(baseURL, appID, token string) *FyersFetcher {
	return &FyersFetcher{
		BaseURL: baseURL,
		AppID:   appID,
		Token:   token,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *FyersFetcher) Name() string { return "fyers" }

// quoteResponse is the expected JSON shape of the quotes endpoint.
type quoteResponse struct {
	S string `json:"s"`
	D []struct {
		V struct {
			LP     float64 `json:"lp"`
			Volume float64 `json:"volume"`
			ATP    float64 `json:"atp"`
		} `json:"v"`
	} `json:"d"`
}

// historyResponse is the expected JSON shape of the history endpoint.
// Candles are [timestamp, open, high, low, close, volume] arrays.
type historyResponse struct {
	S       string       `json:"s"`
	Candles [][6]float64 `json:"candles"`
}

func (f *FyersFetcher) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	endpoint := fmt.Sprintf("%s/data/quotes?symbols=%s", f.BaseURL, url.QueryEscape(symbol))

	var qr quoteResponse
	if err := f.getJSON(ctx, endpoint, &qr); err != nil {
		return model.Quote{}, fmt.Errorf("fetch quote %s: %w", symbol, err)
	}
	if qr.S != "ok" || len(qr.D) == 0 {
		return model.Quote{}, fmt.Errorf("quote %s: %w", symbol, ErrUnavailable)
	}
	v := qr.D[0].V
	if v.LP == 0 {
		return model.Quote{}, fmt.Errorf("quote %s: no last price: %w", symbol, ErrUnavailable)
	}
	return model.Quote{
		Symbol:         symbol,
		LastPrice:      v.LP,
		Volume:         v.Volume,
		AvgTradedPrice: v.ATP,
	}, nil
}

func (f *FyersFetcher) DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]model.Bar, error) {
	endpoint := fmt.Sprintf(
		"%s/data/history?symbol=%s&resolution=1D&date_format=1&range_from=%s&range_to=%s&cont_flag=1",
		f.BaseURL, url.QueryEscape(symbol),
		from.Format("2006-01-02"), to.Format("2006-01-02"))

	var hr historyResponse
	if err := f.getJSON(ctx, endpoint, &hr); err != nil {
		return nil, fmt.Errorf("fetch history %s: %w", symbol, err)
	}
	if hr.S != "ok" {
		return nil, fmt.Errorf("history %s: %w", symbol, ErrUnavailable)
	}

	bars := make([]model.Bar, 0, len(hr.Candles))
	for _, c := range hr.Candles {
		bars = append(bars, model.Bar{
			Symbol:    symbol,
			Timestamp: time.Unix(int64(c[0]), 0),
			Open:      c[1],
			High:      c[2],
			Low:       c[3],
			Close:     c[4],
			Volume:    c[5],
		})
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return bars, nil
}

func (f *FyersFetcher) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if f.Token != "" {
		req.Header.Set("Authorization", f.AppID+":"+f.Token)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
