package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
)

// Client talks to the remote sync API: a single logical push operation
// accepting {type, action?, data} plus full-pull endpoints for reference
// data. Repeated submissions of the same offline id are a server-side no-op,
// which is what makes at-least-once delivery safe.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// pushRequest is the wire envelope for every outbound write.
type pushRequest struct {
	Type   string          `json:"type"` // "sale" or an entity type
	Action string          `json:"action,omitempty"`
	Data   json.RawMessage `json:"data"`
}

type pushResponse struct {
	Accepted bool   `json:"accepted"`
	ServerID string `json:"server_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// saleWire is the server's field naming for a sale, items flattened inline.
type saleWire struct {
	OfflineID        string          `json:"offline_id"`
	TenantID         string          `json:"tenant_id"`
	StoreID          string          `json:"store_id"`
	CustomerID       *string         `json:"customer_id,omitempty"`
	CashierID        string          `json:"cashier_id"`
	Items            []saleItemWire  `json:"items"`
	Total            decimal.Decimal `json:"total"`
	CostTotal        decimal.Decimal `json:"cost_total"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentReference *string         `json:"payment_reference,omitempty"`
	PaymentPhone     *string         `json:"payment_phone,omitempty"`
	IsCredit         bool            `json:"is_credit"`
	DebtDueDate      *time.Time      `json:"debt_due_date,omitempty"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

type saleItemWire struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

func toSaleWire(s *model.Sale) saleWire {
	w := saleWire{
		OfflineID:        s.OfflineID,
		TenantID:         s.TenantID,
		StoreID:          s.StoreID,
		CustomerID:       s.CustomerID,
		CashierID:        s.CashierID,
		Total:            s.Total,
		CostTotal:        s.CostTotal,
		PaymentMethod:    s.PaymentMethod,
		PaymentReference: s.PaymentReference,
		PaymentPhone:     s.PaymentPhone,
		IsCredit:         s.IsCredit,
		DebtDueDate:      s.DebtDueDate,
		Status:           s.Status,
		CreatedAt:        s.CreatedAt,
	}
	for _, it := range s.Items {
		w.Items = append(w.Items, saleItemWire{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			CostPrice:   it.CostPrice,
			Discount:    it.Discount,
			LineTotal:   it.LineTotal,
		})
	}
	return w
}

// PushSale submits one sale and returns the canonical server id.
func (c *Client) PushSale(ctx context.Context, s *model.Sale) (string, error) {
	data, err := json.Marshal(toSaleWire(s))
	if err != nil {
		return "", fmt.Errorf("sync: marshal sale: %w", err)
	}
	resp, err := c.push(ctx, pushRequest{Type: "sale", Data: data})
	if err != nil {
		return "", err
	}
	if resp.ServerID == "" {
		return "", fmt.Errorf("sync: server accepted sale %s without an id", s.OfflineID)
	}
	return resp.ServerID, nil
}

// PushMutation submits one queue entry; the payload passes through opaque.
func (c *Client) PushMutation(ctx context.Context, e *model.MutationEntry) error {
	_, err := c.push(ctx, pushRequest{Type: e.EntityType, Action: e.Action, Data: e.Payload})
	return err
}

func (c *Client) push(ctx context.Context, pr pushRequest) (*pushResponse, error) {
	body, err := json.Marshal(pr)
	if err != nil {
		return nil, fmt.Errorf("sync: marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sync", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sync: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sync: server unreachable: %w", err)
	}
	defer resp.Body.Close()

	var result pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("sync: decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !result.Accepted {
		msg := result.Error
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("sync: server rejected %s: %s", pr.Type, msg)
	}
	return &result, nil
}

// PullProducts fetches the tenant's full current product set.
func (c *Client) PullProducts(ctx context.Context, tenantID string) ([]model.Product, error) {
	var products []model.Product
	if err := c.pull(ctx, "/v1/sync/products", tenantID, &products); err != nil {
		return nil, err
	}
	for i := range products {
		products[i].TenantID = tenantID
	}
	return products, nil
}

// PullCustomers fetches the tenant's full current customer set.
func (c *Client) PullCustomers(ctx context.Context, tenantID string) ([]model.Customer, error) {
	var customers []model.Customer
	if err := c.pull(ctx, "/v1/sync/customers", tenantID, &customers); err != nil {
		return nil, err
	}
	for i := range customers {
		customers[i].TenantID = tenantID
	}
	return customers, nil
}

func (c *Client) pull(ctx context.Context, path, tenantID string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?tenant_id="+tenantID, nil)
	if err != nil {
		return fmt.Errorf("sync: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sync: server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sync: pull %s returned HTTP %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("sync: decode pull response: %w", err)
	}
	return nil
}

// Online probes the remote health endpoint with a short timeout. Absence of
// connectivity is expected, not exceptional, so the result is a plain bool.
func (c *Client) Online(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}
