package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	syncpkg "github.com/nanayaw-123/Swiftgo-pos-sub000/internal/sync"
)

type SyncHandler struct {
	manager *syncpkg.Manager
}

func NewSyncHandler(manager *syncpkg.Manager) *SyncHandler {
	return &SyncHandler{manager: manager}
}

// Status handles GET /v1/sync/status — the UI's polling endpoint.
func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.Status())
}

// Trigger handles POST /v1/sync/trigger — the "sync now" button. The run
// happens in the background (detached from the request context, which dies
// when this handler returns); re-entrancy and connectivity checks still apply.
func (h *SyncHandler) Trigger(c *gin.Context) {
	go h.manager.SyncNow(context.Background())
	c.JSON(http.StatusAccepted, h.manager.Status())
}
