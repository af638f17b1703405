package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/cache"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/dto"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/store"
)

const lookupTTL = 5 * time.Minute

// CatalogService serves catalog reads at the till and feeds the mutation
// queue with pending non-sale writes (product/customer/debt-payment
// create-update-delete). The snapshots themselves stay server-owned; every
// local edit travels through the queue.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	LookupByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	LookupCustomerByPhone(ctx context.Context, phone string) (*model.Customer, error)

	SubmitMutation(ctx context.Context, req dto.SubmitMutationRequest) (*model.MutationEntry, error)
	ListQueue(ctx context.Context) ([]model.MutationEntry, error)
	RequeueFailed(ctx context.Context, id string) error
}

type catalogService struct {
	catalog  store.CatalogStore
	queue    store.QueueStore
	settings store.SettingsStore
	lookup   cache.LookupCache
	syncer   SyncTrigger
}

func NewCatalogService(
	catalog store.CatalogStore,
	queue store.QueueStore,
	settings store.SettingsStore,
	lookup cache.LookupCache,
	syncer SyncTrigger,
) CatalogService {
	if lookup == nil {
		lookup = cache.NoopCache{}
	}
	return &catalogService{
		catalog:  catalog,
		queue:    queue,
		settings: settings,
		lookup:   lookup,
		syncer:   syncer,
	}
}

func (s *catalogService) tenant(ctx context.Context) (string, error) {
	tenantID, err := s.settings.Get(ctx, model.SettingTenantID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && tenantID == "") {
		return "", ErrTenantNotSet
	}
	return tenantID, err
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return s.catalog.GetProducts(ctx, tenantID)
}

func (s *catalogService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}
	return s.catalog.GetCustomers(ctx, tenantID)
}

// LookupByBarcode is the hot path at the till: cache first, store on miss.
// Cache faults degrade to a store read, never to an error.
func (s *catalogService) LookupByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}

	key := "barcode:" + tenantID + ":" + barcode
	if raw, ok, err := s.lookup.Get(ctx, key); err == nil && ok {
		var p model.Product
		if json.Unmarshal(raw, &p) == nil {
			return &p, nil
		}
	} else if err != nil {
		log.Warn().Err(err).Msg("catalog: lookup cache get failed")
	}

	p, err := s.catalog.FindProductByBarcode(ctx, tenantID, barcode)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(p); err == nil {
		if err := s.lookup.Set(ctx, key, raw, lookupTTL); err != nil {
			log.Warn().Err(err).Msg("catalog: lookup cache set failed")
		}
	}
	return p, nil
}

func (s *catalogService) LookupCustomerByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	tenantID, err := s.tenant(ctx)
	if err != nil {
		return nil, err
	}

	key := "phone:" + tenantID + ":" + phone
	if raw, ok, err := s.lookup.Get(ctx, key); err == nil && ok {
		var c model.Customer
		if json.Unmarshal(raw, &c) == nil {
			return &c, nil
		}
	}

	c, err := s.catalog.FindCustomerByPhone(ctx, tenantID, phone)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(c); err == nil {
		if err := s.lookup.Set(ctx, key, raw, lookupTTL); err != nil {
			log.Warn().Err(err).Msg("catalog: lookup cache set failed")
		}
	}
	return c, nil
}

// SubmitMutation appends an entry to the queue and requests a sync. The
// entry stays queued until the server durably accepts it.
func (s *catalogService) SubmitMutation(ctx context.Context, req dto.SubmitMutationRequest) (*model.MutationEntry, error) {
	if _, err := s.tenant(ctx); err != nil {
		return nil, err
	}
	entry := model.MutationEntry{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Action:     req.Action,
		Payload:    req.Payload,
	}
	if err := s.queue.Enqueue(ctx, &entry); err != nil {
		return nil, err
	}
	if s.syncer != nil {
		s.syncer.Trigger()
	}
	log.Info().Str("entry_id", entry.ID).Str("entity", entry.EntityType).
		Str("action", entry.Action).Msg("catalog: mutation queued")
	return &entry, nil
}

func (s *catalogService) ListQueue(ctx context.Context) ([]model.MutationEntry, error) {
	return s.queue.List(ctx)
}

// RequeueFailed puts an exhausted entry back in play and asks for a sync.
func (s *catalogService) RequeueFailed(ctx context.Context, id string) error {
	if err := s.queue.Requeue(ctx, id); err != nil {
		return err
	}
	if s.syncer != nil {
		s.syncer.Trigger()
	}
	return nil
}
