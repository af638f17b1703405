package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/apierror"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/dto"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/service"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/store"
)

type CatalogHandler struct {
	svc service.CatalogService
}

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTenantNotSet):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New("not found"))
	default:
		c.Error(err)
	}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context())
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products, "count": len(products)})
}

func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	customers, err := h.svc.ListCustomers(c.Request.Context())
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customers, "count": len(customers)})
}

// LookupBarcode handles GET /v1/products/barcode/:barcode — the scanner path.
func (h *CatalogHandler) LookupBarcode(c *gin.Context) {
	p, err := h.svc.LookupByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// LookupPhone handles GET /v1/customers/phone/:phone.
func (h *CatalogHandler) LookupPhone(c *gin.Context) {
	cust, err := h.svc.LookupCustomerByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

// SubmitMutation handles POST /v1/mutations: enqueue one pending non-sale
// write for delivery.
func (h *CatalogHandler) SubmitMutation(c *gin.Context) {
	var req dto.SubmitMutationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	entry, err := h.svc.SubmitMutation(c.Request.Context(), req)
	if err != nil {
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, entryToResponse(entry))
}

// ListQueue handles GET /v1/mutations: the full queue, failed entries
// included, oldest first.
func (h *CatalogHandler) ListQueue(c *gin.Context) {
	entries, err := h.svc.ListQueue(c.Request.Context())
	if err != nil {
		h.writeErr(c, err)
		return
	}
	out := make([]dto.MutationEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, *entryToResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": out, "count": len(out)})
}

// Requeue handles POST /v1/mutations/:id/requeue — puts an exhausted entry
// back in play.
func (h *CatalogHandler) Requeue(c *gin.Context) {
	if err := h.svc.RequeueFailed(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("no failed entry with that id"))
			return
		}
		h.writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requeued": true})
}

func entryToResponse(e *model.MutationEntry) *dto.MutationEntryResponse {
	return &dto.MutationEntryResponse{
		ID:         e.ID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Payload:    e.Payload,
		Attempts:   e.Attempts,
		LastError:  e.LastError,
		Status:     e.Status,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}
