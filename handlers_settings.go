package main

import (
	"errors"
	"net/http"
	"strings"

	"tokoikan/models"
	"tokoikan/pkg/imgstore"
	"tokoikan/repository"

	"github.com/gin-gonic/gin"
)

func (s *server) listSettingsHandler(c *gin.Context) {
	rows, err := s.settings.List(c.Request.Context())
	if err != nil {
		s.respondError(c, err, "failed to load settings")
		return
	}
	if rows == nil {
		rows = []models.Setting{}
	}
	respondOK(c, http.StatusOK, "settings retrieved", rows)
}

func (s *server) websiteSettingsHandler(c *gin.Context) {
	values, err := s.settings.WebsiteSettings(c.Request.Context())
	if err != nil {
		s.respondError(c, err, "failed to load website settings")
		return
	}
	respondOK(c, http.StatusOK, "website settings retrieved", models.WithDefaults(values))
}

// updateWebsiteSettingsHandler upserts every posted field. An uploaded logo
// replaces the previous one, whose file is removed first.
func (s *server) updateWebsiteSettingsHandler(c *gin.Context) {
	fields, err := bindSettingFields(c)
	if err != nil {
		s.respondError(c, err, "invalid settings")
		return
	}
	for k := range fields {
		if strings.TrimSpace(k) == "" {
			delete(fields, k)
		}
	}
	logo, err := s.saveUpload(c, logoImageField)
	if err != nil {
		s.respondError(c, err, "failed to store logo")
		return
	}
	if len(fields) == 0 && logo == "" {
		respondFail(c, http.StatusBadRequest, "no settings provided")
		return
	}

	ctx := c.Request.Context()
	if logo != "" {
		delete(fields, models.SettingKeyLogo)
		current, err := s.settings.Get(ctx, models.SettingKeyLogo)
		switch {
		case err == nil:
			if strings.HasPrefix(current.SettingValue, imgstore.PublicPrefix+"/") {
				s.removeImage(current.SettingValue)
			}
		case !errors.Is(err, repository.ErrSettingNotFound):
			s.removeImage(logo)
			s.respondError(c, err, "failed to update website settings")
			return
		}
	}

	if err := s.settings.UpdateMultiple(ctx, fields, logo); err != nil {
		s.removeImage(logo)
		s.respondError(c, err, "failed to update website settings")
		return
	}
	values, err := s.settings.WebsiteSettings(ctx)
	if err != nil {
		s.respondError(c, err, "failed to load website settings")
		return
	}
	respondOK(c, http.StatusOK, "website settings updated", models.WithDefaults(values))
}

func (s *server) getSettingHandler(c *gin.Context) {
	key, ok := settingKey(c)
	if !ok {
		return
	}
	setting, err := s.settings.Get(c.Request.Context(), key)
	if err != nil {
		s.respondError(c, err, "failed to load setting")
		return
	}
	respondOK(c, http.StatusOK, "setting retrieved", setting)
}

func (s *server) putSettingHandler(c *gin.Context) {
	key, ok := settingKey(c)
	if !ok {
		return
	}
	in, err := bindSettingInput(c)
	if err != nil {
		s.respondError(c, err, "invalid setting")
		return
	}
	setting, updated, err := s.settings.Set(c.Request.Context(), key, in.Value, in.Description)
	if err != nil {
		s.respondError(c, err, "failed to save setting")
		return
	}
	if updated {
		respondOK(c, http.StatusOK, "setting updated", setting)
		return
	}
	respondOK(c, http.StatusCreated, "setting created", setting)
}

func (s *server) deleteSettingHandler(c *gin.Context) {
	key, ok := settingKey(c)
	if !ok {
		return
	}
	if err := s.settings.Delete(c.Request.Context(), key); err != nil {
		s.respondError(c, err, "failed to delete setting")
		return
	}
	respondOK(c, http.StatusOK, "setting deleted", gin.H{"setting_key": key})
}

func (s *server) resetSettingsHandler(c *gin.Context) {
	ctx := c.Request.Context()
	if err := s.settings.Reset(ctx, models.DefaultWebsiteSettings); err != nil {
		s.respondError(c, err, "failed to reset settings")
		return
	}
	values, err := s.settings.WebsiteSettings(ctx)
	if err != nil {
		s.respondError(c, err, "failed to load website settings")
		return
	}
	respondOK(c, http.StatusOK, "settings reset to defaults", models.WithDefaults(values))
}

// settingKey reads the trimmed :key param and answers 400 when it is empty.
func settingKey(c *gin.Context) (string, bool) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		respondFail(c, http.StatusBadRequest, "setting key is required")
		return "", false
	}
	return key, true
}
