package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Charan200529/StudentReportSystem/internal/dto"
	"github.com/Charan200529/StudentReportSystem/internal/middleware"
	"github.com/Charan200529/StudentReportSystem/internal/models"
	"github.com/Charan200529/StudentReportSystem/internal/service"
	"github.com/Charan200529/StudentReportSystem/internal/utils"
)

// UserHandler wires account management HTTP routes.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register attaches user endpoints to the router group. Everything except
// the own-profile route is reserved for administrators.
func (h *UserHandler) Register(router fiber.Router) {
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	router.Get("/me", h.profile)
	router.Get("", adminOnly, h.list)
	router.Patch("/:id/role", adminOnly, h.changeRole)
	router.Patch("/:id/semester", adminOnly, h.changeSemester)
	router.Delete("/:id", adminOnly, h.delete)
}

func (h *UserHandler) profile(c *fiber.Ctx) error {
	profile, err := h.service.Profile(c.UserContext(), principalFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	principal := principalFromContext(c)

	if role := strings.TrimSpace(c.Query("role")); role != "" {
		users, err := h.service.ListByRole(c.UserContext(), principal, models.Role(strings.ToUpper(role)))
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.SendSuccess(c, "users retrieved", users)
	}

	if semester, err := parseQueryInt(c, "semester"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	} else if semester != nil {
		users, err := h.service.ListBySemester(c.UserContext(), principal, *semester)
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.SendSuccess(c, "users retrieved", users)
	}

	users, err := h.service.List(c.UserContext(), principal)
	if err != nil {
		return h.handleError(c, err)
	}
	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *UserHandler) changeRole(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ChangeRoleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.ChangeRole(c.UserContext(), principalFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "role updated", user)
}

func (h *UserHandler) changeSemester(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ChangeSemesterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.ChangeSemester(c.UserContext(), principalFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "semester updated", user)
}

func (h *UserHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), principalFromContext(c), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "user deleted", fiber.Map{"id": id})
}

func (h *UserHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrInvalidRole):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid role")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
