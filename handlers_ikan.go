package main

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"tokoikan/models"

	"github.com/gin-gonic/gin"
)

const (
	ikanImageField = "gambar"
	logoImageField = "logo"
)

func (s *server) listIkanHandler(c *gin.Context) {
	items, err := s.ikan.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err, "failed to load products")
		return
	}
	respondOK(c, http.StatusOK, "products retrieved", nonNil(items))
}

func (s *server) searchIkanHandler(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		respondFail(c, http.StatusBadRequest, "search term (q) is required")
		return
	}
	items, err := s.ikan.Search(c.Request.Context(), q)
	if err != nil {
		s.respondError(c, err, "failed to search products")
		return
	}
	respondOK(c, http.StatusOK, "search results", nonNil(items))
}

func (s *server) ikanByStatusHandler(c *gin.Context) {
	status := c.Param("status")
	if !models.ValidIkanStatus(status) {
		respondFail(c, http.StatusBadRequest, "status must be one of: "+strings.Join(models.IkanStatuses, ", "))
		return
	}
	items, err := s.ikan.ListByStatus(c.Request.Context(), status)
	if err != nil {
		s.respondError(c, err, "failed to load products")
		return
	}
	respondOK(c, http.StatusOK, "products retrieved", nonNil(items))
}

func (s *server) getIkanHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ikan, err := s.ikan.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err, "failed to load product")
		return
	}
	respondOK(c, http.StatusOK, "product retrieved", ikan)
}

func (s *server) createIkanHandler(c *gin.Context) {
	in, err := s.ikanInput(c)
	if err != nil {
		s.respondError(c, err, "invalid product")
		return
	}
	gambar, err := s.saveUpload(c, ikanImageField)
	if err != nil {
		s.respondError(c, err, "failed to store image")
		return
	}

	ikan := &models.Ikan{}
	in.Apply(ikan)
	if gambar != "" {
		ikan.Gambar = &gambar
	}
	if err := s.ikan.Create(c.Request.Context(), ikan); err != nil {
		s.removeImage(gambar)
		s.respondError(c, err, "failed to create product")
		return
	}
	s.metrics.CounterIkanMutations.WithLabelValues("create").Inc()
	respondOK(c, http.StatusCreated, "product created", ikan)
}

func (s *server) updateIkanHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	in, err := s.ikanInput(c)
	if err != nil {
		s.respondError(c, err, "invalid product")
		return
	}
	ikan, err := s.ikan.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err, "failed to load product")
		return
	}
	gambar, err := s.saveUpload(c, ikanImageField)
	if err != nil {
		s.respondError(c, err, "failed to store image")
		return
	}

	in.Apply(ikan)
	if gambar != "" {
		if ikan.Gambar != nil {
			s.removeImage(*ikan.Gambar)
		}
		ikan.Gambar = &gambar
	}
	if err := s.ikan.Update(c.Request.Context(), ikan); err != nil {
		s.removeImage(gambar)
		s.respondError(c, err, "failed to update product")
		return
	}
	s.metrics.CounterIkanMutations.WithLabelValues("update").Inc()
	respondOK(c, http.StatusOK, "product updated", ikan)
}

func (s *server) deleteIkanHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ikan, err := s.ikan.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err, "failed to load product")
		return
	}
	if err := s.ikan.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err, "failed to delete product")
		return
	}
	if ikan.Gambar != nil {
		s.removeImage(*ikan.Gambar)
	}
	s.metrics.CounterIkanMutations.WithLabelValues("delete").Inc()
	respondOK(c, http.StatusOK, "product deleted", gin.H{"id": id})
}

func (s *server) ikanInput(c *gin.Context) (models.IkanInput, error) {
	form, err := bindIkanForm(c)
	if err != nil {
		return models.IkanInput{}, err
	}
	return parseIkanInput(form)
}

// saveUpload stores the optional image in field and returns its public path,
// or "" when the request carries no file.
func (s *server) saveUpload(c *gin.Context, field string) (string, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return "", nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return "", invalid(field, "upload is too large")
		}
		return "", err
	}
	return s.images.Save(fh, field)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondFail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func nonNil(items []models.Ikan) []models.Ikan {
	if items == nil {
		return []models.Ikan{}
	}
	return items
}
