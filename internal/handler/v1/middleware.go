package v1

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/domain"
	"github.com/Jeevanbnj/glaucoma-ai-insights/internal/service"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/auth"
	"github.com/Jeevanbnj/glaucoma-ai-insights/pkg/metrics"
)

const (
	ctxClaimsKey    = "auth.claims"
	ctxRequestIDKey = "request.id"

	requestIDHeader = "X-Request-ID"
)

// RequestID assigns each request an identifier, honoring one supplied by the
// caller, and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger emits one structured log line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", requestID(c)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// Metrics records request counts, latency, and in-flight gauge.
func Metrics(m *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.InFlightGauge.Inc()
		start := time.Now()
		c.Next()
		m.InFlightGauge.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// Authenticated is the route guard: it admits only requests carrying a valid,
// non-revoked access token, and stores the claims for handlers. Requests
// without a resolvable session are redirected to 401 well before any
// doctor-scoped data loads.
func Authenticated(jwtManager *auth.JWTManager, tokens service.TokenStore, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
			return
		}

		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token"})
			return
		}

		revoked, err := tokens.IsAccessTokenRevoked(c.Request.Context(), claims.TokenID)
		if err != nil {
			// Deny rather than admit when the denylist is unreachable.
			log.Error("token denylist check failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "session could not be verified"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "session has been logged out"})
			return
		}

		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// RequireDoctor admits only sessions with a linked doctor profile. Used for
// the /doctor routes; the auth routes only need Authenticated.
func RequireDoctor() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := callerClaims(c)
		if claims == nil || claims.DoctorID == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "no doctor profile for this session"})
			return
		}
		c.Next()
	}
}

func callerClaims(c *gin.Context) *domain.Claims {
	v, ok := c.Get(ctxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*domain.Claims)
	return claims
}

func callerDoctorID(c *gin.Context) uuid.UUID {
	claims := callerClaims(c)
	if claims == nil || claims.DoctorID == nil {
		return uuid.Nil
	}
	return *claims.DoctorID
}

func requestID(c *gin.Context) string {
	v, ok := c.Get(ctxRequestIDKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
