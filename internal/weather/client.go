package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bdask/bdask/internal/domain"
)

// DefaultBaseURL is the public Open-Meteo API.
const DefaultBaseURL = "https://api.open-meteo.com"

// Client fetches current conditions from Open-Meteo.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a client with the given base URL and timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// Current returns the current weather for city.
func (c *Client) Current(ctx context.Context, city City) (*domain.Weather, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(city.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(city.Longitude, 'f', -1, 64))
	params.Set("current", "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m")
	params.Set("timezone", "Asia/Dhaka")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/forecast?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var data forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	return &domain.Weather{
		Location:    city.Name,
		Temperature: int(math.Round(data.Current.Temperature)),
		Humidity:    int(math.Round(data.Current.Humidity)),
		WindSpeed:   fmt.Sprintf("%d km/h", int(math.Round(data.Current.WindSpeed))),
		Description: Describe(data.Current.WeatherCode),
		WeatherCode: data.Current.WeatherCode,
	}, nil
}

// ForQuery resolves the city named in query and fetches its weather.
func (c *Client) ForQuery(ctx context.Context, query string) (*domain.Weather, error) {
	return c.Current(ctx, ParseCityFromQuery(query))
}

// FormatReport renders a one-line Bengali summary of w.
func FormatReport(w *domain.Weather) string {
	if w == nil {
		return ""
	}
	return fmt.Sprintf("%sে এখন %s। তাপমাত্রা %d°C, আর্দ্রতা %d%%, এবং বাতাসের গতি %s।",
		w.Location, w.Description, w.Temperature, w.Humidity, w.WindSpeed)
}
