package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the National Weather Service API endpoint
	DefaultBaseURL = "https://api.weather.gov"

	// DefaultUserAgent identifies this client to the NWS API, which rejects
	// requests without a User-Agent header.
	DefaultUserAgent = "weather-agent/1.0 (github.com/KamdynS/weather-agent)"
)

// Config holds NWS client connection details
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Cache     *Cache // optional; nil disables caching
	CacheTTL  time.Duration
}

// Client fetches forecasts and alerts from the National Weather Service API
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates an NWS client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// ActiveAlerts returns active alerts for a two-letter US state code
func (c *Client) ActiveAlerts(ctx context.Context, state string) ([]Alert, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	if len(state) != 2 {
		return nil, fmt.Errorf("state must be a two-letter code, got %q", state)
	}

	url := fmt.Sprintf("%s/alerts/active/area/%s", c.cfg.BaseURL, state)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch alerts for %s: %w", state, err)
	}

	var resp alertsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode alerts response: %w", err)
	}

	alerts := make([]Alert, 0, len(resp.Features))
	for _, f := range resp.Features {
		alerts = append(alerts, Alert{
			Event:       f.Properties.Event,
			AreaDesc:    f.Properties.AreaDesc,
			Severity:    f.Properties.Severity,
			Description: f.Properties.Description,
			Instruction: f.Properties.Instruction,
		})
	}
	return alerts, nil
}

// Forecast returns the period forecast for a point. Resolution is two-step:
// the points endpoint yields the gridpoint forecast URL, which is then
// fetched. The intermediate URL comes from the API, never from guesswork.
func (c *Client) Forecast(ctx context.Context, latitude, longitude float64) ([]ForecastPeriod, error) {
	if latitude < -90 || latitude > 90 {
		return nil, fmt.Errorf("latitude %f out of range", latitude)
	}
	if longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("longitude %f out of range", longitude)
	}

	pointsURL := fmt.Sprintf("%s/points/%.4f,%.4f", c.cfg.BaseURL, latitude, longitude)
	body, err := c.get(ctx, pointsURL)
	if err != nil {
		return nil, fmt.Errorf("resolve gridpoint for %.4f,%.4f: %w", latitude, longitude, err)
	}

	var points pointsResponse
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, fmt.Errorf("decode points response: %w", err)
	}
	if points.Properties.Forecast == "" {
		return nil, fmt.Errorf("no forecast available for %.4f,%.4f", latitude, longitude)
	}

	body, err = c.get(ctx, points.Properties.Forecast)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}

	var forecast forecastResponse
	if err := json.Unmarshal(body, &forecast); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}

	periods := make([]ForecastPeriod, 0, len(forecast.Properties.Periods))
	for _, p := range forecast.Properties.Periods {
		periods = append(periods, ForecastPeriod{
			Name:            p.Name,
			Temperature:     p.Temperature,
			TemperatureUnit: p.TemperatureUnit,
			WindSpeed:       p.WindSpeed,
			WindDirection:   p.WindDirection,
			Detailed:        p.DetailedForecast,
		})
	}
	return periods, nil
}

// get performs a GET against the NWS API, serving from cache when possible.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if c.cfg.Cache != nil {
		if body, ok := c.cfg.Cache.Get(url); ok {
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("nws request failed: %s: %s", resp.Status, truncate(string(body), 200))
	}

	if c.cfg.Cache != nil {
		c.cfg.Cache.Set(url, body, c.cfg.CacheTTL)
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
