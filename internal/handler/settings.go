package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/apierror"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/dto"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/store"
)

type SettingsHandler struct {
	settings store.SettingsStore
}

func NewSettingsHandler(settings store.SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// SetTenant handles PUT /v1/settings/tenant. The authentication collaborator
// calls this after login; sync runs are no-ops until it has.
func (h *SettingsHandler) SetTenant(c *gin.Context) {
	var req dto.SetTenantRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.settings.Set(c.Request.Context(), model.SettingTenantID, req.TenantID); err != nil {
		c.Error(err)
		return
	}
	log.Info().Str("tenant_id", req.TenantID).Msg("settings: tenant bound")
	c.JSON(http.StatusOK, gin.H{"tenant_id": req.TenantID})
}

// GetTenant handles GET /v1/settings/tenant.
func (h *SettingsHandler) GetTenant(c *gin.Context) {
	tenantID, err := h.settings.Get(c.Request.Context(), model.SettingTenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("no tenant configured"))
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenant_id": tenantID})
}

// Reset handles POST /v1/settings/reset — full local wipe, used when the
// terminal is re-provisioned. Unsynced data is lost; the UI must confirm.
func (h *SettingsHandler) Reset(c *gin.Context) {
	if err := h.settings.ClearAll(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	log.Warn().Msg("settings: local store wiped")
	c.JSON(http.StatusOK, gin.H{"reset": true})
}
