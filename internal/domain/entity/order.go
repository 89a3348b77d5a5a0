package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Work statuses. Legacy rows may carry raw values such as "Pending",
// "Processing" or "Ready"; NormalizeWorkStatus folds those for reporting.
const (
	StatusWorking        = "Working"
	StatusReadyToDeliver = "Ready to Deliver"
	StatusDelivered      = "Delivered"
	StatusOther          = "Other"
)

// Payment statuses, derived from total/advance (see DerivePayment).
const (
	PaymentPending = "Pending"
	PaymentPartial = "Partial"
	PaymentPaid    = "Paid"
)

// PreviousBalanceItem is the synthetic line-item name used for opening-balance
// placeholder orders; dashboards and lists skip orders starting with it.
const PreviousBalanceItem = "Previous Balance Due"

// LineItem is one billed line on an order.
type LineItem struct {
	Name string          `json:"name"`
	Qty  int             `json:"qty"`
	Cost decimal.Decimal `json:"cost"`
}

// Order is a tailoring job plus its bill. Balance is always derived as
// TotalAmt - Advance.
type Order struct {
	ID            int64
	AccountID     string
	CustomerID    string
	Items         []LineItem
	StartDate     *time.Time
	DeliveryDate  *time.Time
	TrialDate     *time.Time
	WorkStatus    string
	PaymentStatus string
	TotalAmt      decimal.Decimal
	Advance       decimal.Decimal
	Balance       decimal.Decimal
	PaymentMode   string // Cash, UPI, Card
	BillCreatedBy string
	Notes         string
	CreatedAt     time.Time
}

// OpeningBalance reports whether the order is a synthetic "Previous Balance
// Due" placeholder rather than a real job.
func (o *Order) OpeningBalance() bool {
	return len(o.Items) > 0 && o.Items[0].Name == PreviousBalanceItem
}

// NormalizeWorkStatus maps raw stored statuses into the three reporting
// buckets plus an overflow bucket.
func NormalizeWorkStatus(raw string) string {
	switch raw {
	case "Pending", "Processing":
		return StatusWorking
	case "Ready":
		return StatusReadyToDeliver
	case StatusWorking, StatusReadyToDeliver, StatusDelivered:
		return raw
	default:
		return StatusOther
	}
}

// DerivePayment computes the balance and payment status from the billed total
// and the advance received.
func DerivePayment(total, advance decimal.Decimal) (balance decimal.Decimal, status string) {
	balance = total.Sub(advance)
	if total.IsPositive() {
		switch {
		case !balance.IsPositive():
			return balance, PaymentPaid
		case advance.IsPositive():
			return balance, PaymentPartial
		}
	}
	return balance, PaymentPending
}
