package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/tour-booking/internal/config"
	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextActor    = "actor"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "authorization header is not a bearer token")
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {

			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "token is invalid or expired")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "token claims are unreadable")
			return
		}

		userID, ok1 := claims["sub"].(float64)
		role, ok2 := claims["role"].(string)
		if !ok1 || !ok2 || userID <= 0 || !models.Role(role).Valid() {
			abortUnauthorized(c, "token payload is incomplete")
			return
		}

		actor := domain.Actor{
			UserID: uint(userID),
			Roles:  []models.Role{models.Role(role)},
		}

		c.Set(ContextUserID, actor.UserID)
		c.Set(ContextUserRole, role)
		c.Set(ContextActor, actor)

		c.Next()
	}
}

// RequireRole lets the request through when the actor holds any of roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		for _, r := range roles {
			if actor.HasRole(r) {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "You do not have access to this resource.")
		c.Abort()
	}
}

// ActorFrom returns the authenticated caller, or the zero Actor.
func ActorFrom(c *gin.Context) domain.Actor {
	if v, ok := c.Get(ContextActor); ok {
		if a, ok := v.(domain.Actor); ok {
			return a
		}
	}
	return domain.Actor{}
}

// abortUnauthorized always answers not_authenticated; reason only goes in
// details.
func abortUnauthorized(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{
		Code:    domain.CodeNotAuthenticated,
		Message: "Authentication required.",
		Details: gin.H{"reason": reason},
	})
}
