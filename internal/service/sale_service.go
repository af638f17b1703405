package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/dto"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/infra"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/store"
)

// ErrTenantNotSet is returned when the terminal has not been bound to a
// tenant yet; recording a sale needs tenant context even offline.
var ErrTenantNotSet = errors.New("no tenant configured on this terminal")

// SyncTrigger is the sale recorder's hook into the sync manager: recording a
// sale requests a (debounced) sync so the backlog drains quickly when online.
type SyncTrigger interface {
	Trigger()
}

// SaleService is the sale recorder. It works unconditionally — sync health
// never blocks a sale — and only ever appends to the local store.
type SaleService interface {
	Record(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleResponse, error)
	ListByDate(ctx context.Context, day time.Time) ([]dto.SaleResponse, error)
	Receipt(ctx context.Context, offlineID string) (string, error)
}

type saleService struct {
	sales       store.SaleStore
	catalog     store.CatalogStore
	settings    store.SettingsStore
	syncer      SyncTrigger
	storeID     string
	storeName   string
	receiptPath string
}

func NewSaleService(
	sales store.SaleStore,
	catalog store.CatalogStore,
	settings store.SettingsStore,
	syncer SyncTrigger,
	storeID, storeName, receiptPath string,
) SaleService {
	return &saleService{
		sales:       sales,
		catalog:     catalog,
		settings:    settings,
		syncer:      syncer,
		storeID:     storeID,
		storeName:   storeName,
		receiptPath: receiptPath,
	}
}

// Record creates a locally-identified sale: resolves prices from the catalog
// snapshot, fixes totals at creation time, persists durably, adjusts
// on-device stock, and requests a sync.
func (s *saleService) Record(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	tenantID, err := s.settings.Get(ctx, model.SettingTenantID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && tenantID == "") {
		return nil, ErrTenantNotSet
	}
	if err != nil {
		return nil, err
	}

	if err := validatePayment(req); err != nil {
		return nil, err
	}

	sale := model.Sale{
		OfflineID:        uuid.NewString(),
		TenantID:         tenantID,
		StoreID:          s.storeID,
		CustomerID:       req.CustomerID,
		CashierID:        req.CashierID,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		PaymentPhone:     req.PaymentPhone,
		IsCredit:         req.IsCredit,
		DebtDueDate:      req.DebtDueDate,
		Status:           model.SaleCompleted,
		CreatedAt:        time.Now(),
	}

	total := decimal.Zero
	costTotal := decimal.Zero
	for i, item := range req.Items {
		p, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("product %s not found in local catalog", item.ProductID)
			}
			return nil, err
		}
		if !p.Active {
			return nil, fmt.Errorf("product %s is inactive and cannot be sold", p.Name)
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		lineTotal := p.Price.Mul(qty).Sub(item.Discount)
		if lineTotal.IsNegative() {
			return nil, fmt.Errorf("discount on %s exceeds the line amount", p.Name)
		}
		total = total.Add(lineTotal)
		costTotal = costTotal.Add(p.CostPrice.Mul(qty))
		sale.Items = append(sale.Items, model.SaleItem{
			Position:    i,
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			UnitPrice:   p.Price,
			CostPrice:   p.CostPrice,
			Discount:    item.Discount,
			LineTotal:   lineTotal,
		})
	}
	sale.Total = total
	sale.CostTotal = costTotal

	if err := s.sales.Put(ctx, &sale); err != nil {
		return nil, err
	}

	// Keep on-device stock figures honest between pulls. A failed adjustment
	// is logged, not fatal — the next catalog pull restores the true figure.
	for _, item := range sale.Items {
		if err := s.catalog.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			log.Warn().Err(err).Str("product_id", item.ProductID).Msg("sale: stock adjustment failed")
		}
	}

	if s.syncer != nil {
		s.syncer.Trigger()
	}

	log.Info().Str("offline_id", sale.OfflineID).Str("total", sale.Total.StringFixed(2)).
		Str("payment", sale.PaymentMethod).Msg("sale: recorded")
	return saleToResponse(&sale), nil
}

// validatePayment enforces the semantic payment rules: card and mobile-money
// sales need a reference (momo additionally a wallet phone), credit sales
// need a due date.
func validatePayment(req dto.RecordSaleRequest) error {
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return fmt.Errorf("unknown payment method %q", req.PaymentMethod)
	}
	switch req.PaymentMethod {
	case model.PayMomoMTN, model.PayMomoVodafone, model.PayMomoAirtel:
		if req.PaymentPhone == nil || *req.PaymentPhone == "" {
			return errors.New("mobile money sales require a wallet phone number")
		}
		if req.PaymentReference == nil || *req.PaymentReference == "" {
			return errors.New("mobile money sales require a transaction reference")
		}
	case model.PayCard:
		if req.PaymentReference == nil || *req.PaymentReference == "" {
			return errors.New("card sales require a transaction reference")
		}
	}
	if req.IsCredit || req.PaymentMethod == model.PayCredit {
		if req.DebtDueDate == nil {
			return errors.New("credit sales require a debt due date")
		}
	}
	return nil
}

func (s *saleService) ListByDate(ctx context.Context, day time.Time) ([]dto.SaleResponse, error) {
	tenantID, err := s.settings.Get(ctx, model.SettingTenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTenantNotSet
		}
		return nil, err
	}
	sales, err := s.sales.GetByDate(ctx, tenantID, day)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, *saleToResponse(&sales[i]))
	}
	return out, nil
}

// Receipt renders (or re-renders) the PDF receipt for a sale and returns its
// file path.
func (s *saleService) Receipt(ctx context.Context, offlineID string) (string, error) {
	sale, err := s.sales.GetByOfflineID(ctx, offlineID)
	if err != nil {
		return "", err
	}
	return infra.GenerateReceiptPDF(sale, s.storeName, s.receiptPath)
}

func saleToResponse(v *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			LineTotal:   item.LineTotal,
		})
	}
	return &dto.SaleResponse{
		OfflineID:     v.OfflineID,
		ServerID:      v.ServerID,
		CashierID:     v.CashierID,
		CustomerID:    v.CustomerID,
		Items:         items,
		Total:         v.Total,
		PaymentMethod: v.PaymentMethod,
		IsCredit:      v.IsCredit,
		DebtDueDate:   v.DebtDueDate,
		Status:        v.Status,
		Synced:        v.Synced,
		SyncError:     v.SyncError,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
	}
}
