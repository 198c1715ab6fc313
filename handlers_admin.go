package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *server) loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if isFormRequest(c) {
		req.Email = c.PostForm("email")
		req.Password = c.PostForm("password")
	} else if err := decodeJSONBody(c, &req); err != nil {
		s.respondError(c, err, "login failed")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondFail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	admin, err := Authenticate(c.Request.Context(), s.admins, req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		s.metrics.CounterLoginFailures.Inc()
		s.log.WithFields(requestFields(c)).Warn("failed admin login")
		respondFail(c, http.StatusUnauthorized, ErrInvalidCredentials.Error())
		return
	}
	if err != nil {
		s.respondError(c, err, "login failed")
		return
	}

	token, expires, err := s.tokens.Issue(admin)
	if err != nil {
		s.respondError(c, err, "failed to generate token")
		return
	}
	s.log.WithField("admin_id", admin.ID).Info("admin logged in")
	respondOK(c, http.StatusOK, "login successful", gin.H{
		"token":      token,
		"expires_at": expires.UTC().Format(time.RFC3339),
		"admin":      admin,
	})
}

func (s *server) profileHandler(c *gin.Context) {
	admin, err := s.admins.FindByID(c.Request.Context(), c.GetUint(ctxAdminID))
	if err != nil {
		s.respondError(c, err, "failed to load profile")
		return
	}
	respondOK(c, http.StatusOK, "profile retrieved", admin)
}

// logoutHandler only acknowledges; tokens are not stored server-side and the
// client discards its copy.
func (s *server) logoutHandler(c *gin.Context) {
	respondOK(c, http.StatusOK, "logout successful", nil)
}

func (s *server) healthHandler(c *gin.Context) {
	respondOK(c, http.StatusOK, "API is running", gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *server) notFoundHandler(c *gin.Context) {
	respondFail(c, http.StatusNotFound, "route not found")
}
