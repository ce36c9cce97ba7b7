package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Charan200529/StudentReportSystem/internal/models"
	"github.com/Charan200529/StudentReportSystem/internal/policy"
	"github.com/Charan200529/StudentReportSystem/internal/utils"
)

const principalKey = "principal"

// JWTProtected returns a middleware that validates bearer tokens and binds
// the authenticated principal to the request.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		principal := principalFromClaims(claims)
		if !principal.Authenticated() {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		c.Locals(principalKey, principal)
		c.Locals("user_id", principal.ID)
		c.Locals("user_role", string(principal.Role))

		return c.Next()
	}
}

// PrincipalFromContext returns the principal bound by JWTProtected. The zero
// principal means the request was not authenticated.
func PrincipalFromContext(c *fiber.Ctx) policy.Principal {
	if value := c.Locals(principalKey); value != nil {
		if principal, ok := value.(policy.Principal); ok {
			return principal
		}
	}
	return policy.Principal{}
}

func principalFromClaims(claims jwt.MapClaims) policy.Principal {
	principal := policy.Principal{}

	if userID := extractUserIDFromClaims(claims); userID != nil {
		principal.ID = *userID
	}

	if value, ok := claims["role"]; ok {
		if role, ok := value.(string); ok {
			principal.Role = models.Role(strings.ToUpper(strings.TrimSpace(role)))
		}
	}

	if value, ok := claims["current_semester"]; ok {
		if semester, err := normalizeSemester(value); err == nil {
			principal.CurrentSemester = &semester
		}
	}

	return principal
}

func extractUserIDFromClaims(claims jwt.MapClaims) *uint {
	keys := []string{"sub", "user_id", "id"}
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if normalized, err := normalizeUserID(value); err == nil {
				return &normalized
			}
		}
	}

	return nil
}

func normalizeUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported subject type")
	}
}

func normalizeSemester(value interface{}) (int, error) {
	switch v := value.(type) {
	case float64:
		if v < 1 {
			return 0, fmt.Errorf("invalid semester")
		}
		return int(v), nil
	case int:
		if v < 1 {
			return 0, fmt.Errorf("invalid semester")
		}
		return v, nil
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return 0, fmt.Errorf("invalid semester")
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unsupported semester type")
	}
}
