package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Charan200529/StudentReportSystem/internal/service"
	"github.com/Charan200529/StudentReportSystem/internal/utils"
)

// AnalyticsHandler exposes the admin reporting endpoints.
type AnalyticsHandler struct {
	analytics service.AnalyticsService
	activity  service.ActivityService
	logger    zerolog.Logger
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(analytics service.AnalyticsService, activity service.ActivityService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		activity:  activity,
		logger:    logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// Register attaches analytics endpoints to the router group.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	router.Get("/overview", h.overview)
	router.Get("/activity", h.listActivity)
}

func (h *AnalyticsHandler) overview(c *fiber.Ctx) error {
	overview, err := h.analytics.Overview(c.UserContext(), principalFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "analytics overview retrieved", overview)
}

func (h *AnalyticsHandler) listActivity(c *fiber.Ctx) error {
	var req service.ActivityListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	activity, err := h.activity.List(c.UserContext(), principalFromContext(c), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity log retrieved", activity)
}

func (h *AnalyticsHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
