package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDerivePayment(t *testing.T) {
	cases := []struct {
		name    string
		total   string
		advance string
		balance string
		status  string
	}{
		{"nothing paid", "1000", "0", "1000", PaymentPending},
		{"partial", "1000", "400", "600", PaymentPartial},
		{"fully paid", "1000", "1000", "0", PaymentPaid},
		{"overpaid", "1000", "1200", "-200", PaymentPaid},
		{"zero total", "0", "0", "0", PaymentPending},
		{"fractional partial", "999.50", "0.50", "999", PaymentPartial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			balance, status := DerivePayment(d(tc.total), d(tc.advance))
			assert.True(t, d(tc.balance).Equal(balance), "balance: got %s want %s", balance, tc.balance)
			assert.Equal(t, tc.status, status)
		})
	}
}

func TestNormalizeWorkStatus(t *testing.T) {
	assert.Equal(t, StatusWorking, NormalizeWorkStatus("Pending"))
	assert.Equal(t, StatusWorking, NormalizeWorkStatus("Processing"))
	assert.Equal(t, StatusWorking, NormalizeWorkStatus(StatusWorking))
	assert.Equal(t, StatusReadyToDeliver, NormalizeWorkStatus("Ready"))
	assert.Equal(t, StatusReadyToDeliver, NormalizeWorkStatus(StatusReadyToDeliver))
	assert.Equal(t, StatusDelivered, NormalizeWorkStatus(StatusDelivered))
	assert.Equal(t, StatusOther, NormalizeWorkStatus("Cancelled"))
	assert.Equal(t, StatusOther, NormalizeWorkStatus(""))
}

func TestOpeningBalance(t *testing.T) {
	placeholder := &Order{Items: []LineItem{{Name: PreviousBalanceItem, Qty: 1}}}
	assert.True(t, placeholder.OpeningBalance())

	regular := &Order{Items: []LineItem{{Name: "Shirt", Qty: 2}}}
	assert.False(t, regular.OpeningBalance())

	empty := &Order{}
	assert.False(t, empty.OpeningBalance())

	// only the first item marks a placeholder
	mixed := &Order{Items: []LineItem{{Name: "Shirt"}, {Name: PreviousBalanceItem}}}
	assert.False(t, mixed.OpeningBalance())
}
