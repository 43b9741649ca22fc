package twelvedata

import (
	"context"
	"fmt"
	"strconv"

	"PairSight/internal/domain/models"
	drepo "PairSight/internal/domain/repository"
	xhttp "PairSight/pkg/http"
	"PairSight/pkg/util"
)

// Client implements a CandleSource backed by the Twelve Data REST API.
type Client struct {
	apiKey     string
	baseURL    string
	outputSize int
	http       *xhttp.Client
}

// New creates a new Twelve Data CandleSource.
func New(apiKey, baseURL string, outputSize int, httpClient *xhttp.Client) drepo.CandleSource {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		outputSize: outputSize,
		http:       httpClient,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

type seriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
}

type seriesResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Values  []seriesValue `json:"values"`
}

// FetchSeries returns up to count candles for the symbol, newest first, as
// the provider delivers them. Values arrive as strings and are parsed here.
func (c *Client) FetchSeries(ctx context.Context, symbol string, interval drepo.Timeframe, count int) ([]models.Candle, error) {
	if count <= 0 {
		count = c.outputSize
	}

	var payload seriesResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/time_series",
		QueryParams: map[string][]string{
			"symbol":     {FormatSymbol(symbol)},
			"interval":   {string(interval)},
			"outputsize": {strconv.Itoa(count)},
			"apikey":     {c.apiKey},
		},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("twelvedata time_series: %w", err)
	}

	if payload.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", payload.Message)
	}
	if len(payload.Values) == 0 {
		return nil, fmt.Errorf("twelvedata: empty series for %s", symbol)
	}

	candles := make([]models.Candle, 0, len(payload.Values))
	for _, v := range payload.Values {
		c, err := parseValue(v)
		if err != nil {
			return nil, fmt.Errorf("twelvedata: %w", err)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func parseValue(v seriesValue) (models.Candle, error) {
	ts, ok := util.ParseTime(v.Datetime)
	if !ok {
		return models.Candle{}, fmt.Errorf("datetime %q: unparseable", v.Datetime)
	}
	open, err := strconv.ParseFloat(v.Open, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("open %q: %w", v.Open, err)
	}
	high, err := strconv.ParseFloat(v.High, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("high %q: %w", v.High, err)
	}
	low, err := strconv.ParseFloat(v.Low, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("low %q: %w", v.Low, err)
	}
	cl, err := strconv.ParseFloat(v.Close, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("close %q: %w", v.Close, err)
	}
	return models.Candle{Datetime: ts, Open: open, High: high, Low: low, Close: cl}, nil
}
