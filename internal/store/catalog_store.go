package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
)

// CatalogStore holds the read-mostly mirrors of server-owned reference data.
// Replace* overwrite a tenant's snapshot wholesale inside one transaction;
// AdjustStock is the single sanctioned local mutation.
type CatalogStore interface {
	ReplaceProducts(ctx context.Context, tenantID string, products []model.Product) error
	ReplaceCustomers(ctx context.Context, tenantID string, customers []model.Customer) error
	GetProducts(ctx context.Context, tenantID string) ([]model.Product, error)
	GetCustomers(ctx context.Context, tenantID string) ([]model.Customer, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	FindProductByBarcode(ctx context.Context, tenantID, barcode string) (*model.Product, error)
	FindCustomerByPhone(ctx context.Context, tenantID, phone string) (*model.Customer, error)
	AdjustStock(ctx context.Context, productID string, delta int) error
}

type catalogStore struct{ db *gorm.DB }

func NewCatalogStore(db *gorm.DB) CatalogStore { return &catalogStore{db: db} }

func (r *catalogStore) ReplaceProducts(ctx context.Context, tenantID string, products []model.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenantID).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.CreateInBatches(products, 200).Error
	})
	return wrap("replace products", err)
}

func (r *catalogStore) ReplaceCustomers(ctx context.Context, tenantID string, customers []model.Customer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenantID).Delete(&model.Customer{}).Error; err != nil {
			return err
		}
		if len(customers) == 0 {
			return nil
		}
		return tx.CreateInBatches(customers, 200).Error
	})
	return wrap("replace customers", err)
}

func (r *catalogStore) GetProducts(ctx context.Context, tenantID string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("name ASC").Find(&products).Error
	return products, wrap("get products", err)
}

func (r *catalogStore) GetCustomers(ctx context.Context, tenantID string) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("name ASC").Find(&customers).Error
	return customers, wrap("get customers", err)
}

func (r *catalogStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, wrap("get product", err)
	}
	return &p, nil
}

func (r *catalogStore) FindProductByBarcode(ctx context.Context, tenantID, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND barcode = ?", tenantID, barcode).
		First(&p).Error
	if err != nil {
		return nil, wrap("find product by barcode", err)
	}
	return &p, nil
}

func (r *catalogStore) FindCustomerByPhone(ctx context.Context, tenantID, phone string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&c).Error
	if err != nil {
		return nil, wrap("find customer by phone", err)
	}
	return &c, nil
}

// AdjustStock applies a relative stock delta in a single statement so that
// interleaved sales cannot lose updates.
func (r *catalogStore) AdjustStock(ctx context.Context, productID string, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if res.Error != nil {
		return wrap("adjust stock", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
