package entity

import "time"

// Reminder types.
const (
	ReminderMeasurement = "measurement"
	ReminderDelivery    = "delivery"
	ReminderPayment     = "payment"
)

type Reminder struct {
	ID         string
	AccountID  string
	CustomerID string // optional
	OrderID    int64  // optional, 0 when unset
	Type       string
	DueDate    *time.Time
	DueTime    string // HH:MM, empty when unset
	Message    string
	Status     string // Pending, Sent, Dismissed
	CreatedAt  time.Time
}
