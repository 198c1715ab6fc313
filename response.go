package main

import (
	"errors"
	"net/http"

	"tokoikan/pkg/imgstore"
	"tokoikan/repository"

	"github.com/gin-gonic/gin"
)

// envelope is the body shape of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
}

// respondError maps err onto the error taxonomy. Unknown errors are logged
// and reported as 500 with a generic body.
func (s *server) respondError(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respondFail(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, repository.ErrIkanNotFound),
		errors.Is(err, repository.ErrSettingNotFound),
		errors.Is(err, repository.ErrAdminNotFound):
		respondFail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, imgstore.ErrNotImage), errors.Is(err, imgstore.ErrTooLarge):
		respondFail(c, http.StatusBadRequest, err.Error())
	default:
		s.log.WithFields(requestFields(c)).Errorf("%s: %s", fallback, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, envelope{
			Success: false,
			Message: fallback,
			Error:   "internal server error",
		})
	}
}
