package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/weatherdash/backend/internal/domain"
	"github.com/weatherdash/backend/pkg/utils"
)

// DefaultAirVisualURL is the AirVisual API root
const DefaultAirVisualURL = "http://api.airvisual.com"

// AirQualityService handles communication with the AirVisual nearest-city endpoint
type AirQualityService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewAirQualityService creates a new AQI client. An empty apiKey disables lookups.
func NewAirQualityService(apiKey, baseURL string, timeout time.Duration) *AirQualityService {
	if baseURL == "" {
		baseURL = DefaultAirVisualURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AirQualityService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether an API key is configured
func (s *AirQualityService) Enabled() bool {
	return s.apiKey != ""
}

type airVisualResponse struct {
	Status string `json:"status"`
	Data   *struct {
		City     string `json:"city"`
		Country  string `json:"country"`
		Location struct {
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"location"`
		Current struct {
			Pollution struct {
				AQIUS *int `json:"aqius"`
			} `json:"pollution"`
		} `json:"current"`
	} `json:"data"`
}

// FetchAQI returns the US AQI of the station nearest to (lat, lon)
func (s *AirQualityService) FetchAQI(ctx context.Context, lat, lon float64) (domain.AirQualityReading, error) {
	if !s.Enabled() {
		return domain.AirQualityReading{}, fmt.Errorf("air_quality: no api key configured: %w", domain.ErrProviderUnavailable)
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("key", s.apiKey)
	endpoint := s.baseURL + "/v2/nearest_city?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.AirQualityReading{}, fmt.Errorf("air_quality: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.AirQualityReading{}, fmt.Errorf("air_quality: request failed (%v): %w", err, domain.ErrAQIUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.AirQualityReading{}, fmt.Errorf("air_quality: provider returned status %d: %w", resp.StatusCode, domain.ErrAQIUnavailable)
	}

	var avResp airVisualResponse
	if err := json.NewDecoder(resp.Body).Decode(&avResp); err != nil {
		return domain.AirQualityReading{}, fmt.Errorf("air_quality: failed to decode response (%v): %w", err, domain.ErrAQIUnavailable)
	}

	if avResp.Status != "" && avResp.Status != "success" {
		return domain.AirQualityReading{}, fmt.Errorf("air_quality: provider status %q: %w", avResp.Status, domain.ErrAQIUnavailable)
	}
	if avResp.Data == nil || avResp.Data.Current.Pollution.AQIUS == nil {
		return domain.AirQualityReading{}, fmt.Errorf("air_quality: response has no aqius: %w", domain.ErrAQIUnavailable)
	}

	reading := domain.AirQualityReading{
		AQIUS:   *avResp.Data.Current.Pollution.AQIUS,
		City:    avResp.Data.City,
		Country: avResp.Data.Country,
	}
	if coords := avResp.Data.Location.Coordinates; len(coords) == 2 {
		d := utils.RoundTo(utils.Haversine(lat, lon, coords[1], coords[0]), 1)
		reading.DistanceKm = &d
	}

	return reading, nil
}
