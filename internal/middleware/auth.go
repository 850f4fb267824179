package middleware

import (
	"net/http"

	"devmart/internal/domain/models"
	"devmart/internal/lib/actor"
	jwtlib "devmart/internal/lib/jwt"
	"devmart/internal/transport/http/dto/response"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const LoginRedirect = "/admin/login"

// AdminAuth validates the bearer access token, requires the admin role and
// puts the user id into the request context.
func AdminAuth(secret []byte) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		echojwt.WithConfig(echojwt.Config{
			SigningKey: secret,
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(jwtlib.Claims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return c.JSON(http.StatusUnauthorized, unauthorized("missing or invalid access token"))
			},
		}),
		withActor,
	}
}

func withActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return c.JSON(http.StatusUnauthorized, unauthorized("missing access token"))
		}

		claims, ok := token.Claims.(*jwtlib.Claims)
		if !ok || claims.Type != jwtlib.TypeAccess || claims.Subject == "" {
			return c.JSON(http.StatusUnauthorized, unauthorized("invalid access token"))
		}

		if claims.Role != models.RoleAdmin {
			return c.JSON(http.StatusForbidden, response.ErrorResponse{
				Status:  "error",
				Error:   "forbidden",
				Details: "admin access required",
			})
		}

		req := c.Request()
		c.SetRequest(req.WithContext(actor.WithID(req.Context(), claims.Subject)))

		return next(c)
	}
}

func unauthorized(details string) response.ErrorResponse {
	return response.ErrorResponse{
		Status:   "error",
		Error:    "unauthorized",
		Details:  details,
		Redirect: LoginRedirect,
	}
}
