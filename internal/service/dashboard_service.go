package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/weatherdash/backend/internal/domain"
)

// DefaultCity is shown when the page is opened without a city
const DefaultCity = "Manila"

// DashboardService composes the weather, air quality and favorites services
type DashboardService struct {
	weather     WeatherLookup
	airQuality  AirQualityLookup
	favorites   *FavoriteService
	defaultCity string
	logger      *slog.Logger
}

// PageResult is everything the weather page needs for one render
type PageResult struct {
	City      string                    `json:"city"`
	Weather   *domain.WeatherReading    `json:"weather"`
	AQI       *domain.AirQualityReading `json:"aqi"`
	Favorites []domain.Favorite         `json:"favorites"`
	Message   *Message                  `json:"message,omitempty"`

	// KeepPrevious tells the view to retain whatever weather it already shows
	KeepPrevious bool `json:"keep_previous"`
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	weather WeatherLookup,
	airQuality AirQualityLookup,
	favorites *FavoriteService,
	defaultCity string,
	logger *slog.Logger,
) *DashboardService {
	if defaultCity == "" {
		defaultCity = DefaultCity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		weather:     weather,
		airQuality:  airQuality,
		favorites:   favorites,
		defaultCity: defaultCity,
		logger:      logger,
	}
}

// Favorites exposes the favorites service
func (s *DashboardService) Favorites() *FavoriteService {
	return s.favorites
}

// View renders the page for city, falling back to the default city.
// Lookup failures simply leave weather empty.
func (s *DashboardService) View(ctx context.Context, city string) PageResult {
	city = strings.TrimSpace(city)
	if city == "" {
		city = s.defaultCity
	}

	result := PageResult{City: city}

	if s.weather != nil && s.weather.Enabled() {
		weather, aqi, err := s.lookup(ctx, city)
		if err != nil {
			s.logger.Warn("weather lookup failed", "city", city, "error", err)
		} else {
			result.Weather = &weather
			result.AQI = aqi
		}
	}

	result.Favorites = s.listFavorites(ctx)
	return result
}

// Search looks up an explicitly requested city. On failure the result carries an
// error message and KeepPrevious so the caller keeps the previously displayed weather.
func (s *DashboardService) Search(ctx context.Context, city string) PageResult {
	city = strings.TrimSpace(city)
	result := PageResult{City: city}

	if err := domain.ValidateCity(city); err != nil {
		result.Message = errorMessage(err.Error())
		result.KeepPrevious = true
		result.Favorites = s.listFavorites(ctx)
		return result
	}

	weather, aqi, err := s.lookup(ctx, city)
	if err != nil {
		s.logger.Info("search failed", "city", city, "error", err)
		if errors.Is(err, domain.ErrProviderUnavailable) {
			result.Message = errorMessage("Weather service is not configured.")
		} else {
			result.Message = errorMessage("City not found.")
		}
		result.KeepPrevious = true
		result.Favorites = s.listFavorites(ctx)
		return result
	}

	result.Weather = &weather
	result.AQI = aqi
	result.Favorites = s.listFavorites(ctx)
	return result
}

// Combined returns weather plus AQI for the JSON endpoint.
// Use domain.StatusCode on the error for the HTTP status.
func (s *DashboardService) Combined(ctx context.Context, city string) (domain.CombinedPayload, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return domain.CombinedPayload{}, &domain.ValidationError{Field: "city", Message: "is required"}
	}

	weather, aqi, err := s.lookup(ctx, city)
	if err != nil {
		return domain.CombinedPayload{}, err
	}

	return domain.CombinedPayload{Weather: weather, AQI: aqi}, nil
}

// AddFavorite saves a city and returns the acknowledgement to show
func (s *DashboardService) AddFavorite(ctx context.Context, city string, country *string) (*domain.Favorite, *Message) {
	fav, err := s.favorites.Add(ctx, city, country)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return nil, errorMessage(vErr.Error())
		}
		s.logger.Error("failed to add favorite", "city", city, "error", err)
		return nil, errorMessage("Could not add favorite.")
	}
	return &fav, successMessage("City added to favorites.")
}

// RemoveFavorite deletes a favorite and returns the acknowledgement to show
func (s *DashboardService) RemoveFavorite(ctx context.Context, id string) *Message {
	if err := s.favorites.Remove(ctx, id); err != nil {
		s.logger.Error("failed to remove favorite", "id", id, "error", err)
		return errorMessage("Could not remove favorite.")
	}
	return successMessage("Favorite removed.")
}

// lookup runs the weather call and, when coordinates came back, the AQI call.
// AQI runs strictly after weather since it needs the coordinates.
func (s *DashboardService) lookup(ctx context.Context, city string) (domain.WeatherReading, *domain.AirQualityReading, error) {
	if s.weather == nil || !s.weather.Enabled() {
		return domain.WeatherReading{}, nil, domain.ErrProviderUnavailable
	}

	weather, err := s.weather.FetchCurrent(ctx, city)
	if err != nil {
		if errors.Is(err, domain.ErrProviderUnavailable) {
			return domain.WeatherReading{}, nil, err
		}
		if !errors.Is(err, domain.ErrCityNotFound) {
			err = errors.Join(domain.ErrCityNotFound, err)
		}
		return domain.WeatherReading{}, nil, err
	}

	return weather, s.lookupAQI(ctx, weather), nil
}

// lookupAQI never fails the request; any problem just omits AQI
func (s *DashboardService) lookupAQI(ctx context.Context, weather domain.WeatherReading) *domain.AirQualityReading {
	if s.airQuality == nil || !s.airQuality.Enabled() || weather.Coordinates == nil {
		return nil
	}

	aqi, err := s.airQuality.FetchAQI(ctx, weather.Coordinates.Lat, weather.Coordinates.Lon)
	if err != nil {
		s.logger.Warn("aqi unavailable", "city", weather.Name, "error", err)
		return nil
	}
	return &aqi
}

// listFavorites keeps the page readable even when the store is down
func (s *DashboardService) listFavorites(ctx context.Context) []domain.Favorite {
	favorites, err := s.favorites.List(ctx)
	if err != nil {
		s.logger.Error("failed to list favorites", "error", err)
		return []domain.Favorite{}
	}
	return favorites
}
