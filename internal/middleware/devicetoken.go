package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/sekolahdev/presensi-api/pkg/errors"
	"github.com/sekolahdev/presensi-api/pkg/response"
)

// ContextDeviceKey is the gin context key storing the authenticated device id.
const ContextDeviceKey = "currentDevice"

// DeviceTokenClaims are the claims scan devices sign with the shared secret.
type DeviceTokenClaims struct {
	DeviceID string `json:"deviceId"`
	jwt.RegisteredClaims
}

// DeviceToken protects the scan ingestion boundary by requiring a valid
// HMAC-signed device token.
func DeviceToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims := &DeviceTokenClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.DeviceID == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid device token"))
			c.Abort()
			return
		}

		c.Set(ContextDeviceKey, claims.DeviceID)
		c.Next()
	}
}

// DeviceID returns the authenticated device id stored in the context.
func DeviceID(c *gin.Context) string {
	if v, exists := c.Get(ContextDeviceKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
