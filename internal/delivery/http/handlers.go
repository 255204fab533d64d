package http

import (
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/weatherdash/backend/internal/domain"
	"github.com/weatherdash/backend/internal/service"
	"github.com/weatherdash/backend/pkg/utils"
)

const (
	flashSuccessKey = "flash_success"
	flashErrorKey   = "flash_error"
	fallbackPath    = "/weather"
)

// Handler contains all HTTP handlers
type Handler struct {
	dashboardSvc *service.DashboardService
	classifier   *service.StatusClassifier
	sessions     *session.Store
	logger       *slog.Logger
}

// NewHandler creates a new handler
func NewHandler(dashboardSvc *service.DashboardService, classifier *service.StatusClassifier, sessions *session.Store, logger *slog.Logger) *Handler {
	if sessions == nil {
		sessions = session.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		dashboardSvc: dashboardSvc,
		classifier:   classifier,
		sessions:     sessions,
		logger:       logger,
	}
}

// Flash holds one-shot messages carried across a redirect
type Flash struct {
	Success *string `json:"success"`
	Error   *string `json:"error"`
}

// PageView is the view-model handed to the weather page
type PageView struct {
	City      string                    `json:"city"`
	Weather   *domain.WeatherReading    `json:"weather"`
	Icon      string                    `json:"icon,omitempty"`
	AQI       *domain.AirQualityReading `json:"aqi"`
	AQIStatus *domain.AqiStatus         `json:"aqi_status"`
	AQIGauge  float64                   `json:"aqi_gauge"`
	Favorites []domain.Favorite         `json:"favorites"`
	Flash     Flash                     `json:"flash"`
}

type searchRequest struct {
	City string `json:"city" form:"city"`
}

type favoriteRequest struct {
	City    string `json:"city" form:"city"`
	Country string `json:"country" form:"country"`
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	code := fiber.StatusOK
	if err := h.dashboardSvc.Favorites().Health(c.UserContext()); err != nil {
		h.logger.Warn("store health check failed", "error", err)
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"service": "weatherdash-backend",
		"version": "1.0.0",
	})
}

// Index renders the weather page for ?city= (default city when absent)
func (h *Handler) Index(c *fiber.Ctx) error {
	result := h.dashboardSvc.View(c.UserContext(), c.Query("city"))
	return c.JSON(h.render(c, result))
}

// Search handles the search form. Failures flash an error and send the user back.
func (h *Handler) Search(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	result := h.dashboardSvc.Search(c.UserContext(), req.City)
	if result.KeepPrevious {
		h.setFlash(c, result.Message)
		return c.RedirectBack(fallbackPath)
	}

	return c.JSON(h.render(c, result))
}

// SaveFavorite stores a favorite city
func (h *Handler) SaveFavorite(c *fiber.Ctx) error {
	var req favoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	var country *string
	if req.Country != "" {
		country = &req.Country
	}

	_, msg := h.dashboardSvc.AddFavorite(c.UserContext(), req.City, country)
	h.setFlash(c, msg)
	return c.RedirectBack(fallbackPath)
}

// RemoveFavorite deletes a favorite by id
func (h *Handler) RemoveFavorite(c *fiber.Ctx) error {
	msg := h.dashboardSvc.RemoveFavorite(c.UserContext(), c.Params("id"))
	h.setFlash(c, msg)
	return c.RedirectBack(fallbackPath)
}

// Combined returns weather and AQI as JSON for AJAX callers
func (h *Handler) Combined(c *fiber.Ctx) error {
	city, err := url.PathUnescape(c.Params("city"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid city"})
	}

	payload, err := h.dashboardSvc.Combined(c.UserContext(), city)
	if err != nil {
		code := domain.StatusCode(err)
		return c.Status(code).JSON(fiber.Map{"error": combinedErrorText(code)})
	}

	return c.JSON(payload)
}

func combinedErrorText(code int) string {
	switch code {
	case fiber.StatusBadRequest:
		return "City is required"
	case fiber.StatusNotFound:
		return "City not found"
	default:
		return "Missing OPENWEATHER_API_KEY"
	}
}

// render applies the classifier and pulls pending flash messages
func (h *Handler) render(c *fiber.Ctx, result service.PageResult) PageView {
	view := PageView{
		City:      result.City,
		Weather:   result.Weather,
		AQI:       result.AQI,
		Favorites: result.Favorites,
		Flash:     h.pullFlash(c),
	}

	if result.Weather != nil {
		view.Icon = h.classifier.IconFor(result.Weather.Condition.Main)
	}
	if result.AQI != nil {
		status := h.classifier.ClassifyAQI(result.AQI.AQIUS)
		view.AQIStatus = &status
		view.AQIGauge = utils.GaugePercent(result.AQI.AQIUS)
	}
	if view.Favorites == nil {
		view.Favorites = []domain.Favorite{}
	}

	return view
}

func (h *Handler) setFlash(c *fiber.Ctx, msg *service.Message) {
	if msg == nil {
		return
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		h.logger.Error("failed to load session", "error", err)
		return
	}

	key := flashSuccessKey
	if msg.Kind == service.MessageError {
		key = flashErrorKey
	}
	sess.Set(key, msg.Text)

	if err := sess.Save(); err != nil {
		h.logger.Error("failed to save session", "error", err)
	}
}

func (h *Handler) pullFlash(c *fiber.Ctx) Flash {
	var f Flash

	sess, err := h.sessions.Get(c)
	if err != nil {
		h.logger.Error("failed to load session", "error", err)
		return f
	}

	changed := false
	if v, ok := sess.Get(flashSuccessKey).(string); ok {
		f.Success = &v
		sess.Delete(flashSuccessKey)
		changed = true
	}
	if v, ok := sess.Get(flashErrorKey).(string); ok {
		f.Error = &v
		sess.Delete(flashErrorKey)
		changed = true
	}

	if changed {
		if err := sess.Save(); err != nil {
			h.logger.Error("failed to save session", "error", err)
		}
	}
	return f
}
