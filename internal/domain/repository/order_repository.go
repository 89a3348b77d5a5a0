package repository

import (
	"context"

	"github.com/taivex/taivex/internal/domain/entity"
)

// OrderRecord is an order joined with the identifying customer columns needed
// by list views, exports and the dashboard.
type OrderRecord struct {
	entity.Order
	CustomerName   string
	CustomerMobile string
}

// OrderQuery filters the order/bill lists. Window scopes by creation time
// unless DeliveryDate is set, which overrides it.
type OrderQuery struct {
	Search       string
	Status       string // "pending", "paid" or empty
	Window       entity.Window
	DeliveryDate *entity.Window // day window on delivery_date
	Date         *entity.Window // day window on created_at (bills view)
	Page         int
	PerPage      int
}

type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	Update(ctx context.Context, o *entity.Order) error
	Delete(ctx context.Context, accountID string, id int64) error
	GetByID(ctx context.Context, accountID string, id int64) (*entity.Order, error)
	GetRecord(ctx context.Context, accountID string, id int64) (*OrderRecord, error)
	// GetPublic fetches an order record without tenant scoping; only the
	// signed bill-share view may use it.
	GetPublic(ctx context.Context, id int64) (*OrderRecord, error)
	List(ctx context.Context, accountID string, q OrderQuery) ([]OrderRecord, int, error)
	// ListAll returns every order for the account, newest first (CSV export).
	ListAll(ctx context.Context, accountID string) ([]OrderRecord, error)
	ListWindow(ctx context.Context, accountID string, w entity.Window) ([]OrderRecord, error)
	// TopPending returns unpaid orders by balance, largest first.
	TopPending(ctx context.Context, accountID string, limit int) ([]OrderRecord, error)
	DeleteAll(ctx context.Context, accountID string) error
}
