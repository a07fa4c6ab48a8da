package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"pixeljournal/config"
	"pixeljournal/internal/app/http/httpx"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtKey := []byte(config.JWT_SECRET)
		if len(jwtKey) == 0 {
			httpx.AbortFail(c, http.StatusInternalServerError, httpx.CodeInternalError, "JWT secret not configured")
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httpx.AbortFail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Authorization header missing")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			httpx.AbortFail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Bearer token malformed")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			httpx.AbortFail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httpx.AbortFail(c, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid token claims")
			return
		}

		if email, ok := claims["email"].(string); ok {
			c.Set("email", email)
		}
		if userIDFloat, ok := claims["user_id"].(float64); ok {
			c.Set("user_id", uint(userIDFloat))
		}
		c.Next()
	}
}
