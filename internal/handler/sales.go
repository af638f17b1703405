package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/apierror"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/dto"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/service"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/store"
)

type SalesHandler struct {
	svc service.SaleService
}

func NewSalesHandler(svc service.SaleService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

// Record handles POST /v1/sales. Recording never depends on connectivity —
// the sale lands in the local store and the sync manager delivers it later.
func (h *SalesHandler) Record(c *gin.Context) {
	var req dto.RecordSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Record(c.Request.Context(), req)
	if err != nil {
		status := http.StatusBadRequest
		var se *store.StorageError
		if errors.As(err, &se) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List handles GET /v1/sales?date=2006-01-02 (defaults to today).
func (h *SalesHandler) List(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("date must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	sales, err := h.svc.ListByDate(c.Request.Context(), day)
	if err != nil {
		if errors.Is(err, service.ErrTenantNotSet) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sales, "count": len(sales)})
}

// Receipt handles GET /v1/sales/:offline_id/receipt and streams the PDF.
func (h *SalesHandler) Receipt(c *gin.Context) {
	offlineID := c.Param("offline_id")
	path, err := h.svc.Receipt(c.Request.Context(), offlineID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("sale not found"))
			return
		}
		c.Error(err)
		return
	}
	c.FileAttachment(path, "receipt_"+offlineID+".pdf")
}
