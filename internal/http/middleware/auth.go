package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"fitbook/internal/auth"
	"fitbook/internal/model"
	"fitbook/internal/service"
)

// ClaimsLocalKey is the fiber.Ctx locals key holding the verified *auth.Claims.
const ClaimsLocalKey = "claims"

// Authenticator verifies a raw bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid, unrevoked bearer token.
// Verification failures other than a bad token surface as 500.
func RequireAuth(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		claims, err := a.Authenticate(c.UserContext(), raw)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
			}
			zap.L().Error("authenticate_failed",
				zap.String("request_id", RequestIDFrom(c)),
				zap.Error(err),
			)
			if errors.Is(err, context.DeadlineExceeded) {
				return fiber.NewError(fiber.StatusGatewayTimeout, "request timed out")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// RequireRole lets through only callers whose token carries role. It must run after RequireAuth.
func RequireRole(role model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		if claims.Role != role {
			return fiber.NewError(fiber.StatusForbidden, "forbidden")
		}
		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireAuth, or nil.
func ClaimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
