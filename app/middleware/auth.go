package middleware

import (
	"log/slog"

	"storefront-service/app/domain"
	"storefront-service/app/handler/api/response"
	"storefront-service/pkg"
	"storefront-service/pkg/ctxutil"

	"github.com/gofiber/fiber/v2"
)

func Auth(secretKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := parseClaims(c, secretKey)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(response.Error(domain.ErrUnauthorized))
		}

		c.Locals(ctxutil.UserIDKey, claims.UID)
		c.Locals(ctxutil.UserNameKey, claims.Name)
		c.Locals(ctxutil.AdminKey, claims.Admin)
		return c.Next()
	}
}

// AuthAdmin additionally requires the admin claim.
func AuthAdmin(secretKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := parseClaims(c, secretKey)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(response.Error(domain.ErrUnauthorized))
		}

		if !claims.Admin {
			slog.ErrorContext(c.Context(), "[middleware] AuthAdmin", "admin", "false")
			return c.Status(fiber.StatusUnauthorized).JSON(response.Error(domain.ErrUnauthorized))
		}

		c.Locals(ctxutil.UserIDKey, claims.UID)
		c.Locals(ctxutil.UserNameKey, claims.Name)
		c.Locals(ctxutil.AdminKey, claims.Admin)
		return c.Next()
	}
}

func parseClaims(c *fiber.Ctx, secretKey string) (pkg.TokenClaims, error) {
	token, err := pkg.GetTokenFromHeaders(c.Get("Authorization"))
	if err != nil {
		slog.ErrorContext(c.Context(), "[middleware] Auth", "GetTokenFromHeaders", err)
		return pkg.TokenClaims{}, err
	}

	claims, err := pkg.ParseJwtToken(token, secretKey)
	if err != nil {
		slog.ErrorContext(c.Context(), "[middleware] Auth", "ParseJwtToken", err)
		return pkg.TokenClaims{}, err
	}

	if claims.UID == 0 {
		slog.ErrorContext(c.Context(), "[middleware] Auth", "userID", "0")
		return pkg.TokenClaims{}, domain.ErrUnauthorized
	}

	return claims, nil
}
