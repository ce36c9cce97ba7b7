package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Charan200529/StudentReportSystem/internal/models"
	"github.com/Charan200529/StudentReportSystem/internal/utils"
)

// RequireRole gates a route to principals holding one of the given roles.
// It prefers the principal bound by JWTProtected and falls back to the
// user_role local so it composes with any auth middleware.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role := PrincipalFromContext(c).Role
		if role == "" {
			role = models.Role(strings.ToUpper(normalizeRoleValue(c.Locals("user_role"))))
		}
		if role == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		if value == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}
