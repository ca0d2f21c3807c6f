package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/wesglu/checkbox/internal/apierror"
	"github.com/wesglu/checkbox/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const UserIDKey = "user_id"

// JWTAuth validates the Bearer token on every protected route and resolves
// the authenticated user. Malformed, unsigned or expired tokens are rejected
// with 403, as are tokens whose subject no longer maps to an active user.
func JWTAuth(secret string, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(apierror.ErrForbidden.Error()))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(apierror.ErrForbidden.Error()))
			return
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(apierror.ErrForbidden.Error()))
			return
		}

		user, err := users.FindByID(c.Request.Context(), uint(userID))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, apierror.New("User not found"))
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New("Inactive user"))
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Next()
	}
}

// GetUserID is a helper to retrieve the authenticated user id from the Gin context.
func GetUserID(c *gin.Context) uint {
	id, _ := c.MustGet(UserIDKey).(uint)
	return id
}
