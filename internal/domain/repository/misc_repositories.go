package repository

import (
	"context"

	"github.com/taivex/taivex/internal/domain/entity"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, accountID, id string) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// ListOwn returns the account's custom categories for a gender.
	ListOwn(ctx context.Context, accountID, gender string) ([]entity.Category, error)
	// FindByName matches case-insensitively within the account and gender.
	FindByName(ctx context.Context, accountID, gender, name string) (*entity.Category, error)
	// UsageCount counts measurements referencing the category.
	UsageCount(ctx context.Context, accountID, id string) (int, error)
	// SeedSystem inserts shared system categories if none exist yet.
	SeedSystem(ctx context.Context, cats []entity.Category) error
	HasSystem(ctx context.Context) (bool, error)
}

// MeasurementRecord joins a measurement with display columns.
type MeasurementRecord struct {
	entity.Measurement
	CustomerName   string
	CustomerMobile string
	CategoryName   string
}

type MeasurementRepository interface {
	Create(ctx context.Context, m *entity.Measurement) error
	Delete(ctx context.Context, accountID, id string) error
	GetByID(ctx context.Context, accountID, id string) (*entity.Measurement, error)
	// LastActive returns the newest active measurement for the customer and
	// category, or ErrNotFound.
	LastActive(ctx context.Context, accountID, customerID, categoryID string) (*entity.Measurement, error)
	ListWindow(ctx context.Context, accountID string, w entity.Window, page, perPage int) ([]MeasurementRecord, int, error)
	ListByCustomer(ctx context.Context, accountID, customerID string) ([]MeasurementRecord, error)
	ListRange(ctx context.Context, accountID string, w entity.Window) ([]MeasurementRecord, error)
	DeleteAll(ctx context.Context, accountID string) error
}

type ReminderRepository interface {
	Create(ctx context.Context, r *entity.Reminder) error
	DeleteAll(ctx context.Context, accountID string) error
}

type ShopProfileRepository interface {
	// GetOrCreate returns the account's profile, creating an empty one first
	// if missing.
	GetOrCreate(ctx context.Context, accountID string) (*entity.ShopProfile, error)
	Get(ctx context.Context, accountID string) (*entity.ShopProfile, error)
	Update(ctx context.Context, p *entity.ShopProfile) error
}
