package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jimmbo89/api-sweetspot/internal/model"
	"github.com/jimmbo89/api-sweetspot/pkg/database"
	"github.com/jimmbo89/api-sweetspot/pkg/jwtutil"
	"github.com/jimmbo89/api-sweetspot/pkg/logger"
	"github.com/jimmbo89/api-sweetspot/prometheus"
)

// UserContextKey is where the authenticated claims live in the echo
// context for the lifetime of one request.
const UserContextKey = "user"

// AuthMiddleware is the authorization gate for protected routes. The
// checks run in order and short-circuit on the first failure: missing
// token, unknown token row, revoked, expired (row timestamp), then
// signature verification. A bad signature on a stored token is a
// server-side inconsistency and is reported as 500, not 401.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		tokenString := extractBearerToken(c)
		if tokenString == "" {
			prometheus.RecordAuthError("missing_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Acceso no autorizado: token no proporcionado"})
		}

		var userToken model.UserToken
		err := database.GetDB().Where("token = ?", tokenString).First(&userToken).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Error("Failed to look up session token", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Error en el servidor"})
			}
			prometheus.RecordAuthError("token_not_found")
			return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Acceso no autorizado: token revocado o no válido"})
		}

		if userToken.Revoked {
			prometheus.RecordAuthError("token_revoked")
			return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Acceso no autorizado: token revocado o no válido"})
		}

		if userToken.IsExpired() {
			prometheus.RecordAuthError("token_expired")
			return c.JSON(http.StatusUnauthorized, echo.Map{"msg": "Acceso no autorizado: token expirado"})
		}

		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Error("Failed to verify session token signature", zap.Error(err))
			prometheus.RecordAuthError("token_invalid")
			return c.JSON(http.StatusInternalServerError, echo.Map{"msg": "Error al verificar el token", "error": err.Error()})
		}

		// Bind the identity to this request's context only; it is torn
		// down with the request and never shared across requests.
		c.Set(UserContextKey, claims)

		ctxLogger := log.With(
			zap.Uint("user_id", claims.UserID),
			zap.String("user_name", claims.UserName),
		)
		c.Set("logger", ctxLogger)

		return next(c)
	}
}

// CurrentUser returns the claims bound by AuthMiddleware, or nil on
// unauthenticated routes.
func CurrentUser(c echo.Context) *jwtutil.UserClaims {
	claims, _ := c.Get(UserContextKey).(*jwtutil.UserClaims)
	return claims
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
