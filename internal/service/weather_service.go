package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/weatherdash/backend/internal/domain"
)

// DefaultOpenWeatherURL is the OpenWeatherMap API root
const DefaultOpenWeatherURL = "https://api.openweathermap.org"

// WeatherService handles current-weather lookups against OpenWeatherMap
type WeatherService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewWeatherService creates a new weather service. An empty apiKey disables lookups.
func NewWeatherService(apiKey, baseURL string, timeout time.Duration) *WeatherService {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WeatherService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether an API key is configured
func (s *WeatherService) Enabled() bool {
	return s.apiKey != ""
}

// providerCode is the "cod" field. OpenWeatherMap sends 200 as a number and errors as strings.
type providerCode int

func (c *providerCode) UnmarshalJSON(b []byte) error {
	raw := string(bytes.Trim(b, `"`))
	if raw == "" || raw == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("weather: invalid cod %q: %w", raw, err)
	}
	*c = providerCode(n)
	return nil
}

// OpenWeatherResponse represents the OpenWeatherMap API response
type OpenWeatherResponse struct {
	Cod   providerCode `json:"cod"`
	Coord *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// FetchCurrent fetches current weather for a city in metric units.
// Every provider-side failure is reported as domain.ErrCityNotFound.
func (s *WeatherService) FetchCurrent(ctx context.Context, city string) (domain.WeatherReading, error) {
	if !s.Enabled() {
		return domain.WeatherReading{}, fmt.Errorf("weather: no api key configured: %w", domain.ErrProviderUnavailable)
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", s.apiKey)
	q.Set("units", "metric")
	endpoint := s.baseURL + "/data/2.5/weather?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.WeatherReading{}, fmt.Errorf("weather: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.WeatherReading{}, fmt.Errorf("weather: request failed (%v): %w", err, domain.ErrCityNotFound)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.WeatherReading{}, fmt.Errorf("weather: provider returned status %d: %w", resp.StatusCode, domain.ErrCityNotFound)
	}

	var owResp OpenWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&owResp); err != nil {
		return domain.WeatherReading{}, fmt.Errorf("weather: failed to decode response (%v): %w", err, domain.ErrCityNotFound)
	}

	if owResp.Cod != http.StatusOK {
		return domain.WeatherReading{}, fmt.Errorf("weather: provider returned cod %d: %w", owResp.Cod, domain.ErrCityNotFound)
	}

	weather := domain.WeatherReading{
		Name:        owResp.Name,
		Country:     owResp.Sys.Country,
		Temperature: owResp.Main.Temp,
		FeelsLike:   owResp.Main.FeelsLike,
		Humidity:    owResp.Main.Humidity,
		Pressure:    owResp.Main.Pressure,
		WindSpeed:   owResp.Wind.Speed,
	}

	if len(owResp.Weather) > 0 {
		weather.Condition = domain.Condition{
			Main:        owResp.Weather[0].Main,
			Description: owResp.Weather[0].Description,
			Icon:        owResp.Weather[0].Icon,
		}
	}

	if owResp.Coord != nil {
		weather.Coordinates = &domain.Coordinates{Lat: owResp.Coord.Lat, Lon: owResp.Coord.Lon}
	}

	return weather, nil
}
