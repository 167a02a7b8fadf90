package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/user"
)

// capabilityMiddleware only lets through users holding `cap`.
func capabilityMiddleware(cap string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if user.Can(claims.Roles, cap) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
