package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
)

type fakePendingOrders struct {
	repo.OrderRepository
	pending []repo.OrderRecord
}

func (f *fakePendingOrders) TopPending(context.Context, string, int) ([]repo.OrderRecord, error) {
	return f.pending, nil
}

func TestReminderView(t *testing.T) {
	due := record(1, "Asha", "Working", "Shirt")
	placeholder := record(2, "Ravi", "Working", entity.PreviousBalanceItem)
	tomorrow := record(3, "Meena", "Ready", "Blouse")

	pending := record(4, "Kiran", "Delivered", "Kurta")
	pending.Balance = decimal.NewFromInt(900)

	svc := &ReminderService{
		Orders: &fakePendingOrders{pending: []repo.OrderRecord{pending}},
		Dash: &fakeDash{
			due:      []repo.OrderRecord{due, placeholder},
			upcoming: []repo.OrderRecord{tomorrow},
		},
		Logger: quietLogger(),
		Now: func() time.Time {
			return time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC)
		},
	}

	view, err := svc.View(context.Background(), "acc-1")
	require.NoError(t, err)

	require.Len(t, view.Urgent, 1)
	assert.Equal(t, int64(1), view.Urgent[0].ID)

	require.Len(t, view.Tomorrow, 1)
	assert.Equal(t, entity.StatusReadyToDeliver, view.Tomorrow[0].WorkStatus)

	require.Len(t, view.PendingPayments, 1)
	assert.True(t, view.PendingPayments[0].Balance.Equal(decimal.NewFromInt(900)))
}
