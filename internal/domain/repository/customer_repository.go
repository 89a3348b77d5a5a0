package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/taivex/taivex/internal/domain/entity"
)

// CustomerQuery filters the customer list. Window scopes by last visit unless
// a specific Date is given. Status filters by pending balance across the
// customer's orders.
type CustomerQuery struct {
	Search  string
	Gender  string
	Status  string // "pending", "paid" or empty
	Window  entity.Window
	Date    *entity.Window // day window, overrides Window when set
	Page    int
	PerPage int
}

// CustomerStats carries the per-customer order rollups shown in list views.
type CustomerStats struct {
	OrderCount   int
	PendingTotal decimal.Decimal
}

type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	Update(ctx context.Context, c *entity.Customer) error
	// Delete removes the customer and its measurements, orders and reminders.
	Delete(ctx context.Context, accountID, id string) error
	GetByID(ctx context.Context, accountID, id string) (*entity.Customer, error)
	List(ctx context.Context, accountID string, q CustomerQuery) ([]entity.Customer, int, error)
	// Stats returns order counts and pending sums for the given customers.
	Stats(ctx context.Context, accountID string, customerIDs []string) (map[string]CustomerStats, error)
	// Search matches name or mobile, used as the fallback when Elasticsearch
	// is not configured.
	Search(ctx context.Context, accountID, query string, limit int) ([]entity.Customer, error)
	// PendingTotal sums unpaid balances across the customer's orders.
	PendingTotal(ctx context.Context, accountID, customerID string) (decimal.Decimal, error)
	// DeleteAll wipes every customer (and cascaded records) for the account.
	DeleteAll(ctx context.Context, accountID string) error
}
