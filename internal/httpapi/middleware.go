package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thenoetrevino/relabel/internal/auth"
	"github.com/thenoetrevino/relabel/internal/metrics"
)

const (
	claimsKey    = "relabel_claims"
	requestIDKey = "relabel_request_id"
)

// requestLogger logs each request with slog and records Prometheus metrics
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

		slog.Info("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration", elapsed)
	}
}

// cors allows browser clients from the configured origins
func cors(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (slices.Contains(allowed, "*") || slices.Contains(allowed, origin)) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// authRequired verifies the caller's token. The token comes from the
// Authorization header, or the token query parameter for websocket clients.
func authRequired(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			token = c.Query("token")
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				sendError(c, http.StatusUnauthorized, "Not authorized, no token provided")
				return
			}
			slog.Debug("token rejected", "error", err)
			sendError(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// adminOnly rejects callers without the admin role. Must run after authRequired.
func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := getClaims(c)
		if claims == nil || !claims.HasRole(auth.RoleAdmin) {
			sendError(c, http.StatusForbidden, "Access denied. Admin privileges required.")
			return
		}
		c.Next()
	}
}

func getClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
