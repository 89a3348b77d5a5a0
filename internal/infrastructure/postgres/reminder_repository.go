package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taivex/taivex/internal/domain/entity"
	"github.com/taivex/taivex/internal/domain/repository"
)

type ReminderRepository struct {
	pool *pgxpool.Pool
}

func NewReminderRepository(pool *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{pool: pool}
}

func (r *ReminderRepository) Create(ctx context.Context, rem *entity.Reminder) error {
	var orderID *int64
	if rem.OrderID != 0 {
		orderID = &rem.OrderID
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reminders (account_id, customer_id, order_id, type, due_date, due_time, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, rem.AccountID, nullableID(rem.CustomerID), orderID, rem.Type,
		rem.DueDate, rem.DueTime, rem.Message, rem.Status)
	return row.Scan(&rem.ID, &rem.CreatedAt)
}

func (r *ReminderRepository) DeleteAll(ctx context.Context, accountID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM reminders WHERE account_id = $1`, accountID)
	return err
}

var _ repository.ReminderRepository = (*ReminderRepository)(nil)
