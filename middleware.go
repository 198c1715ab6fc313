package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tokoikan/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	ctxAdminID    = "admin_id"
	ctxAdminEmail = "admin_email"
	ctxAdminNama  = "admin_nama"
)

// jwtAuthMiddleware verifies the bearer token and then re-reads the account,
// so a disabled admin loses access on the next request.
func jwtAuthMiddleware(tokens *TokenIssuer, admins adminStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			respondFail(c, http.StatusUnauthorized, ErrTokenMissing.Error())
			return
		}
		claims, err := tokens.Verify(strings.TrimSpace(tokenString))
		if err != nil {
			respondFail(c, http.StatusUnauthorized, err.Error())
			return
		}

		admin, err := admins.FindByID(c.Request.Context(), claims.AdminID)
		if err != nil && !errors.Is(err, repository.ErrAdminNotFound) {
			log.WithFields(requestFields(c)).Errorf("auth: load admin %d: %s", claims.AdminID, err)
			respondFail(c, http.StatusInternalServerError, "failed to verify account")
			return
		}
		if !admin.IsActive() {
			respondFail(c, http.StatusUnauthorized, ErrAccountDisabled.Error())
			return
		}

		c.Set(ctxAdminID, admin.ID)
		c.Set(ctxAdminEmail, admin.Email)
		c.Set(ctxAdminNama, admin.Nama)
		c.Next()
	}
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		entry := log.WithFields(requestFields(c)).WithFields(logrus.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

func requestMetrics(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func(begin time.Time) {
			m.HistRequestDuration.Observe(time.Since(begin).Seconds())
		}(time.Now())
		c.Next()
		m.CounterRequests.WithLabelValues(c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// corsMiddleware echoes allowed origins back; "*" in the list allows any.
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowed[origin] || allowed["*"]) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func recoveryHandler(log logrus.FieldLogger, m *Metrics) gin.RecoveryFunc {
	return func(c *gin.Context, err any) {
		log.WithFields(requestFields(c)).Errorf("panic serving request: %v", err)
		m.CounterRequestPanics.Inc()
		c.AbortWithStatusJSON(http.StatusInternalServerError, envelope{
			Success: false,
			Message: "internal server error",
			Error:   "internal server error",
		})
	}
}

func requestFields(c *gin.Context) logrus.Fields {
	return logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"ip":     c.ClientIP(),
	}
}
