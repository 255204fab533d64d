package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/weatherdash/backend/internal/domain"
	"github.com/weatherdash/backend/internal/repository/postgres"
)

type stubWeather struct {
	enabled  bool
	readings map[string]domain.WeatherReading
	err      error
	calls    []string
}

func (s *stubWeather) Enabled() bool { return s.enabled }

func (s *stubWeather) FetchCurrent(ctx context.Context, city string) (domain.WeatherReading, error) {
	s.calls = append(s.calls, city)
	if s.err != nil {
		return domain.WeatherReading{}, s.err
	}
	w, ok := s.readings[city]
	if !ok {
		return domain.WeatherReading{}, fmt.Errorf("stub: %w", domain.ErrCityNotFound)
	}
	return w, nil
}

type stubAirQuality struct {
	enabled bool
	aqi     int
	err     error
	calls   int
}

func (s *stubAirQuality) Enabled() bool { return s.enabled }

func (s *stubAirQuality) FetchAQI(ctx context.Context, lat, lon float64) (domain.AirQualityReading, error) {
	s.calls++
	if s.err != nil {
		return domain.AirQualityReading{}, s.err
	}
	return domain.AirQualityReading{AQIUS: s.aqi}, nil
}

func manilaReading() domain.WeatherReading {
	return domain.WeatherReading{
		Name:        "Manila",
		Country:     "PH",
		Condition:   domain.Condition{Main: "Clouds", Description: "broken clouds"},
		Temperature: 31,
		Coordinates: &domain.Coordinates{Lat: 14.6, Lon: 120.98},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDashboard(weather WeatherLookup, aqi AirQualityLookup) (*DashboardService, *postgres.MockRepository) {
	repo := postgres.NewMockRepository()
	return NewDashboardService(weather, aqi, NewFavoriteService(repo), "", quietLogger()), repo
}

func TestViewDefaultsToManilaWithoutAQIKey(t *testing.T) {
	weather := &stubWeather{enabled: true, readings: map[string]domain.WeatherReading{"Manila": manilaReading()}}
	aqi := &stubAirQuality{enabled: false, aqi: 42}
	svc, _ := newTestDashboard(weather, aqi)

	result := svc.View(context.Background(), "")

	if result.City != "Manila" {
		t.Errorf("expected default city Manila, got %q", result.City)
	}
	if result.Weather == nil || result.Weather.Name != "Manila" {
		t.Fatalf("expected Manila weather, got %+v", result.Weather)
	}
	if result.AQI != nil {
		t.Errorf("expected no AQI without key, got %+v", result.AQI)
	}
	if aqi.calls != 0 {
		t.Errorf("AQI provider should not be called, got %d calls", aqi.calls)
	}
	if result.Message != nil {
		t.Errorf("expected no message, got %+v", result.Message)
	}
	if result.Favorites == nil {
		t.Error("favorites should be an empty list, not nil")
	}
}

func TestViewFetchesAQIAfterWeather(t *testing.T) {
	weather := &stubWeather{enabled: true, readings: map[string]domain.WeatherReading{"Manila": manilaReading()}}
	aqi := &stubAirQuality{enabled: true, aqi: 120}
	svc, _ := newTestDashboard(weather, aqi)

	result := svc.View(context.Background(), "Manila")

	if result.AQI == nil || result.AQI.AQIUS != 120 {
		t.Fatalf("expected AQI 120, got %+v", result.AQI)
	}
	if aqi.calls != 1 {
		t.Errorf("expected one AQI call, got %d", aqi.calls)
	}
}

func TestViewSkipsAQIWithoutCoordinates(t *testing.T) {
	reading := manilaReading()
	reading.Coordinates = nil
	weather := &stubWeather{enabled: true, readings: map[string]domain.WeatherReading{"Manila": reading}}
	aqi := &stubAirQuality{enabled: true, aqi: 120}
	svc, _ := newTestDashboard(weather, aqi)

	result := svc.View(context.Background(), "Manila")

	if result.AQI != nil || aqi.calls != 0 {
		t.Errorf("expected AQI to be skipped, got %+v after %d calls", result.AQI, aqi.calls)
	}
}

func TestViewAQIFailureIsSoft(t *testing.T) {
	weather := &stubWeather{enabled: true, readings: map[string]domain.WeatherReading{"Manila": manilaReading()}}
	aqi := &stubAirQuality{enabled: true, err: fmt.Errorf("boom: %w", domain.ErrAQIUnavailable)}
	svc, _ := newTestDashboard(weather, aqi)

	result := svc.View(context.Background(), "Manila")

	if result.Weather == nil {
		t.Fatal("weather should survive an AQI failure")
	}
	if result.AQI != nil {
		t.Errorf("expected AQI omitted, got %+v", result.AQI)
	}
}

func TestViewWithoutWeatherKey(t *testing.T) {
	weather := &stubWeather{enabled: false}
	svc, _ := newTestDashboard(weather, &stubAirQuality{})

	result := svc.View(context.Background(), "Paris")

	if result.Weather != nil {
		t.Errorf("expected no weather, got %+v", result.Weather)
	}
	if len(weather.calls) != 0 {
		t.Errorf("weather provider should not be called, got %v", weather.calls)
	}
	if result.Message != nil {
		t.Errorf("page view should not flash, got %+v", result.Message)
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name        string
		city        string
		weather     *stubWeather
		wantWeather bool
		wantMessage string
		wantCalls   int
	}{
		{
			name:        "found",
			city:        "  Manila ",
			weather:     &stubWeather{enabled: true, readings: map[string]domain.WeatherReading{"Manila": manilaReading()}},
			wantWeather: true,
			wantCalls:   1,
		},
		{
			name:        "not found",
			city:        "Atlantis",
			weather:     &stubWeather{enabled: true},
			wantMessage: "City not found.",
			wantCalls:   1,
		},
		{
			name:        "transport failure",
			city:        "Manila",
			weather:     &stubWeather{enabled: true, err: errors.New("connection refused")},
			wantMessage: "City not found.",
			wantCalls:   1,
		},
		{
			name:        "empty city",
			city:        "   ",
			weather:     &stubWeather{enabled: true},
			wantMessage: "city is required",
		},
		{
			name:        "city too long",
			city:        strings.Repeat("a", 101),
			weather:     &stubWeather{enabled: true},
			wantMessage: "city may not be greater than 100 characters",
		},
		{
			name:        "no weather key",
			city:        "Paris",
			weather:     &stubWeather{enabled: false},
			wantMessage: "Weather service is not configured.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestDashboard(tt.weather, &stubAirQuality{})

			result := svc.Search(context.Background(), tt.city)

			if (result.Weather != nil) != tt.wantWeather {
				t.Errorf("weather presence: expected %v, got %+v", tt.wantWeather, result.Weather)
			}
			if tt.wantMessage == "" {
				if result.Message != nil || result.KeepPrevious {
					t.Errorf("unexpected failure %+v", result.Message)
				}
			} else {
				if result.Message == nil || result.Message.Kind != MessageError || result.Message.Text != tt.wantMessage {
					t.Errorf("expected error %q, got %+v", tt.wantMessage, result.Message)
				}
				if !result.KeepPrevious {
					t.Error("failed search should keep previous weather")
				}
			}
			if len(tt.weather.calls) != tt.wantCalls {
				t.Errorf("expected %d provider calls, got %d", tt.wantCalls, len(tt.weather.calls))
			}
		})
	}
}

func TestCombined(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		weather := &stubWeather{enabled: true, readings: map[string]domain.WeatherReading{"Manila": manilaReading()}}
		svc, _ := newTestDashboard(weather, &stubAirQuality{enabled: true, aqi: 55})

		payload, err := svc.Combined(context.Background(), "Manila")
		if err != nil {
			t.Fatalf("Combined failed: %v", err)
		}
		if payload.Weather.Name != "Manila" || payload.AQI == nil || payload.AQI.AQIUS != 55 {
			t.Errorf("unexpected payload %+v", payload)
		}
	})

	t.Run("city not found", func(t *testing.T) {
		svc, _ := newTestDashboard(&stubWeather{enabled: true}, &stubAirQuality{})

		_, err := svc.Combined(context.Background(), "Atlantis")
		if code := domain.StatusCode(err); code != http.StatusNotFound {
			t.Errorf("expected 404, got %d (%v)", code, err)
		}
	})

	t.Run("unclassified weather failure maps to 404", func(t *testing.T) {
		svc, _ := newTestDashboard(&stubWeather{enabled: true, err: errors.New("tls handshake timeout")}, &stubAirQuality{})

		_, err := svc.Combined(context.Background(), "Manila")
		if code := domain.StatusCode(err); code != http.StatusNotFound {
			t.Errorf("expected 404, got %d (%v)", code, err)
		}
	})

	t.Run("missing weather key", func(t *testing.T) {
		for _, city := range []string{"Paris", "Atlantis", "Manila"} {
			weather := &stubWeather{enabled: false, readings: map[string]domain.WeatherReading{"Manila": manilaReading()}}
			svc, _ := newTestDashboard(weather, &stubAirQuality{enabled: true})

			_, err := svc.Combined(context.Background(), city)
			if code := domain.StatusCode(err); code != http.StatusInternalServerError {
				t.Errorf("%s: expected 500, got %d (%v)", city, code, err)
			}
		}
	})

	t.Run("empty city", func(t *testing.T) {
		weather := &stubWeather{enabled: true}
		svc, _ := newTestDashboard(weather, &stubAirQuality{})

		_, err := svc.Combined(context.Background(), " ")
		if code := domain.StatusCode(err); code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", code)
		}
		if len(weather.calls) != 0 {
			t.Error("validation failure must not call the provider")
		}
	})
}

func TestAddAndRemoveFavorite(t *testing.T) {
	svc, repo := newTestDashboard(&stubWeather{}, &stubAirQuality{})
	ctx := context.Background()

	fav, msg := svc.AddFavorite(ctx, "Tokyo", strPtr("JP"))
	if fav == nil || msg.Kind != MessageSuccess || msg.Text != "City added to favorites." {
		t.Fatalf("unexpected add result %+v %+v", fav, msg)
	}

	again, msg := svc.AddFavorite(ctx, "Tokyo", strPtr("JP"))
	if again == nil || again.ID != fav.ID || msg.Kind != MessageSuccess {
		t.Errorf("duplicate add should return the existing record, got %+v", again)
	}

	_, msg = svc.AddFavorite(ctx, "", nil)
	if msg.Kind != MessageError {
		t.Errorf("expected validation error, got %+v", msg)
	}

	msg = svc.RemoveFavorite(ctx, fav.ID)
	if msg.Kind != MessageSuccess || msg.Text != "Favorite removed." {
		t.Errorf("unexpected remove message %+v", msg)
	}

	list, _ := repo.ListFavorites(ctx)
	if len(list) != 0 {
		t.Errorf("expected empty store, got %d", len(list))
	}
}

type failingRepo struct {
	postgres.MockRepository
}

func (r *failingRepo) ListFavorites(ctx context.Context) ([]domain.Favorite, error) {
	return nil, errors.New("connection reset")
}

func TestViewSurvivesStoreFailure(t *testing.T) {
	weather := &stubWeather{enabled: true, readings: map[string]domain.WeatherReading{"Manila": manilaReading()}}
	svc := NewDashboardService(weather, nil, NewFavoriteService(&failingRepo{}), "Manila", quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result := svc.View(ctx, "")
	if result.Weather == nil {
		t.Error("weather should render when the favorites store fails")
	}
	if result.Favorites == nil || len(result.Favorites) != 0 {
		t.Errorf("expected empty favorites, got %v", result.Favorites)
	}
}

func strPtr(s string) *string {
	return &s
}
