// Package openmeteo fetches forecasts from api.open-meteo.com
package openmeteo

import (
	"context"
	"net/url"
	"strconv"

	perr "gridwatch/internal/platform/errors"
	"gridwatch/internal/platform/upstream"
)

// DefaultBaseURL is the public forecast API
const DefaultBaseURL = "https://api.open-meteo.com"

// Options selects the location and horizon
type Options struct {
	Latitude     float64
	Longitude    float64
	Timezone     string
	ForecastDays int
}

// Forecast is the subset of the answer the dashboard renders
type Forecast struct {
	Current struct {
		Time        string  `json:"time"`
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time        []string  `json:"time"`
		WeatherCode []int     `json:"weather_code"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// Client queries one fixed location
type Client struct {
	up   *upstream.Client
	opts Options
}

// New builds a Client; zero options fall back to Europe/Kyiv and 4 days
func New(up *upstream.Client, o Options) *Client {
	if o.Timezone == "" {
		o.Timezone = "Europe/Kyiv"
	}
	if o.ForecastDays <= 0 {
		o.ForecastDays = 4
	}
	return &Client{up: up, opts: o}
}

// Query renders the forecast query string
func (c *Client) Query() string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.opts.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.opts.Longitude, 'f', -1, 64))
	q.Set("current", "temperature_2m,weather_code")
	q.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min")
	q.Set("timezone", c.opts.Timezone)
	q.Set("forecast_days", strconv.Itoa(c.opts.ForecastDays))
	return q.Encode()
}

// Forecast fetches current conditions and the daily outlook
func (c *Client) Forecast(ctx context.Context) (Forecast, error) {
	var f Forecast
	if err := c.up.GetJSON(ctx, "/v1/forecast?"+c.Query(), nil, &f); err != nil {
		return Forecast{}, err
	}
	n := len(f.Daily.Time)
	if len(f.Daily.WeatherCode) != n || len(f.Daily.TempMax) != n || len(f.Daily.TempMin) != n {
		return Forecast{}, perr.Upstreamf("openmeteo: daily arrays differ in length")
	}
	return f, nil
}
