package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CustomerCounts are the customer-side dashboard counters. Today/Yesterday
// count by last visit day; ThisMonth/ThisYear count by creation date.
type CustomerCounts struct {
	Total     int
	ThisWeek  int
	Today     int
	Yesterday int
	ThisMonth int
	ThisYear  int
}

// RevenueSums are sums of order total amounts per window.
type RevenueSums struct {
	AllTime decimal.Decimal
	Today   decimal.Decimal
	Month   decimal.Decimal
	Year    decimal.Decimal
}

// PendingSums are sums of unpaid order balances.
type PendingSums struct {
	AllTime decimal.Decimal
	Month   decimal.Decimal
}

// DeliveryCounts are the order-side dashboard counters.
type DeliveryCounts struct {
	DueToday int // delivery date today, not yet delivered
	Pending  int // undelivered orders overall
}

// MonthCount is one point of the monthly customer series.
type MonthCount struct {
	Month time.Time
	Count int
}

// StatusCount is one raw work-status bucket before normalization.
type StatusCount struct {
	Status string
	Count  int
}

// CustomerSpend is one row of the top-customers ranking.
type CustomerSpend struct {
	CustomerID string
	Name       string
	Mobile     string
	TotalSpend decimal.Decimal
}

// DashboardRepository provides the aggregate queries behind the dashboard.
// Every query is scoped by account id; today is passed in so the whole
// overview is computed against one consistent date.
type DashboardRepository interface {
	CustomerCounts(ctx context.Context, accountID string, today time.Time) (CustomerCounts, error)
	RevenueSums(ctx context.Context, accountID string, today time.Time) (RevenueSums, error)
	PendingSums(ctx context.Context, accountID string, today time.Time) (PendingSums, error)
	DeliveryCounts(ctx context.Context, accountID string, today time.Time) (DeliveryCounts, error)
	MonthlyCustomerSeries(ctx context.Context, accountID string, months int) ([]MonthCount, error)
	StatusCounts(ctx context.Context, accountID string) ([]StatusCount, error)
	RecentOrders(ctx context.Context, accountID string, limit int) ([]OrderRecord, error)
	OrdersCreatedOn(ctx context.Context, accountID string, day time.Time) ([]OrderRecord, error)
	// DueOrders returns undelivered orders with delivery date on or before
	// today, oldest first.
	DueOrders(ctx context.Context, accountID string, today time.Time, limit int) ([]OrderRecord, error)
	// UpcomingOrders returns undelivered orders due strictly after today and
	// up to the horizon, soonest first.
	UpcomingOrders(ctx context.Context, accountID string, today, horizon time.Time, limit int) ([]OrderRecord, error)
	TopCustomers(ctx context.Context, accountID string, limit int) ([]CustomerSpend, error)
}
