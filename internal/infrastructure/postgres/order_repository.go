package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taivex/taivex/internal/domain/entity"
	"github.com/taivex/taivex/internal/domain/repository"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderCols = `o.id, o.account_id, o.customer_id, o.items, o.start_date, o.delivery_date,
	o.trial_date, o.work_status, o.payment_status, o.total_amt, o.advance, o.balance,
	o.payment_mode, o.bill_created_by, o.notes, o.created_at`

func itemsJSON(items []entity.LineItem) ([]byte, error) {
	if items == nil {
		items = []entity.LineItem{}
	}
	return json.Marshal(items)
}

func scanOrderInto(row pgx.Row, o *entity.Order, extra ...any) error {
	var raw []byte
	dest := []any{&o.ID, &o.AccountID, &o.CustomerID, &raw, &o.StartDate, &o.DeliveryDate,
		&o.TrialDate, &o.WorkStatus, &o.PaymentStatus, &o.TotalAmt, &o.Advance, &o.Balance,
		&o.PaymentMode, &o.BillCreatedBy, &o.Notes, &o.CreatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(raw, &o.Items)
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	items, err := itemsJSON(o.Items)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (account_id, customer_id, items, start_date, delivery_date, trial_date,
			work_status, payment_status, total_amt, advance, balance, payment_mode,
			bill_created_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`, o.AccountID, o.CustomerID, items, o.StartDate, o.DeliveryDate, o.TrialDate,
		o.WorkStatus, o.PaymentStatus, o.TotalAmt, o.Advance, o.Balance, o.PaymentMode,
		o.BillCreatedBy, o.Notes)
	return row.Scan(&o.ID, &o.CreatedAt)
}

func (r *OrderRepository) Update(ctx context.Context, o *entity.Order) error {
	items, err := itemsJSON(o.Items)
	if err != nil {
		return err
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET customer_id = $1, items = $2, start_date = $3, delivery_date = $4, trial_date = $5,
			work_status = $6, payment_status = $7, total_amt = $8, advance = $9, balance = $10,
			payment_mode = $11, bill_created_by = $12, notes = $13
		WHERE id = $14 AND account_id = $15
	`, o.CustomerID, items, o.StartDate, o.DeliveryDate, o.TrialDate,
		o.WorkStatus, o.PaymentStatus, o.TotalAmt, o.Advance, o.Balance,
		o.PaymentMode, o.BillCreatedBy, o.Notes, o.ID, o.AccountID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, accountID string, id int64) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM orders WHERE id = $1 AND account_id = $2
	`, id, accountID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, accountID string, id int64) (*entity.Order, error) {
	o := &entity.Order{}
	err := scanOrderInto(r.pool.QueryRow(ctx, `
		SELECT `+orderCols+` FROM orders o WHERE o.id = $1 AND o.account_id = $2
	`, id, accountID), o)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) GetRecord(ctx context.Context, accountID string, id int64) (*repository.OrderRecord, error) {
	rec := &repository.OrderRecord{}
	err := scanOrderInto(r.pool.QueryRow(ctx, `
		SELECT `+orderCols+`, c.name, c.mobile
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1 AND o.account_id = $2
	`, id, accountID), &rec.Order, &rec.CustomerName, &rec.CustomerMobile)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *OrderRepository) GetPublic(ctx context.Context, id int64) (*repository.OrderRecord, error) {
	rec := &repository.OrderRecord{}
	err := scanOrderInto(r.pool.QueryRow(ctx, `
		SELECT `+orderCols+`, c.name, c.mobile
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`, id), &rec.Order, &rec.CustomerName, &rec.CustomerMobile)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *OrderRepository) List(ctx context.Context, accountID string, q repository.OrderQuery) ([]repository.OrderRecord, int, error) {
	where := []string{"o.account_id = $1"}
	args := []any{accountID}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if s := strings.TrimSpace(q.Search); s != "" {
		p := arg("%" + s + "%")
		cond := fmt.Sprintf("(c.name ILIKE %s OR c.mobile LIKE %s", p, p)
		// numeric search also matches the order id
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			cond += " OR o.id = " + arg(id)
		}
		where = append(where, cond+")")
	}
	switch q.Status {
	case "pending":
		where = append(where, "o.balance > 0")
	case "paid":
		where = append(where, "o.balance <= 0 AND o.total_amt > 0")
	}
	switch {
	case q.DeliveryDate != nil:
		where = append(where, "o.delivery_date >= "+arg(q.DeliveryDate.Start),
			"o.delivery_date < "+arg(q.DeliveryDate.End))
	case q.Date != nil:
		where = append(where, "o.created_at >= "+arg(q.Date.Start),
			"o.created_at < "+arg(q.Date.End))
	case !q.Window.Start.IsZero():
		where = append(where, "o.created_at >= "+arg(q.Window.Start),
			"o.created_at < "+arg(q.Window.End))
	}

	sql := fmt.Sprintf(`
		SELECT %s, c.name, c.mobile, COUNT(*) OVER() AS total
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE %s
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT %s OFFSET %s
	`, orderCols, strings.Join(where, " AND "), arg(q.PerPage), arg((q.Page-1)*q.PerPage))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []repository.OrderRecord
	total := 0
	for rows.Next() {
		rec := repository.OrderRecord{}
		if err := scanOrderInto(rows, &rec.Order, &rec.CustomerName, &rec.CustomerMobile, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func (r *OrderRepository) ListAll(ctx context.Context, accountID string) ([]repository.OrderRecord, error) {
	return r.listRecords(ctx, `
		SELECT `+orderCols+`, c.name, c.mobile
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.account_id = $1
		ORDER BY o.created_at DESC, o.id DESC
	`, accountID)
}

func (r *OrderRepository) ListWindow(ctx context.Context, accountID string, w entity.Window) ([]repository.OrderRecord, error) {
	return r.listRecords(ctx, `
		SELECT `+orderCols+`, c.name, c.mobile
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.account_id = $1 AND o.created_at >= $2 AND o.created_at < $3
		ORDER BY o.created_at DESC, o.id DESC
	`, accountID, w.Start, w.End)
}

func (r *OrderRepository) TopPending(ctx context.Context, accountID string, limit int) ([]repository.OrderRecord, error) {
	return r.listRecords(ctx, `
		SELECT `+orderCols+`, c.name, c.mobile
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.account_id = $1 AND o.balance > 0
		ORDER BY o.balance DESC, o.created_at DESC
		LIMIT $2
	`, accountID, limit)
}

func (r *OrderRepository) DeleteAll(ctx context.Context, accountID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE account_id = $1`, accountID)
	return err
}

func (r *OrderRepository) listRecords(ctx context.Context, sql string, args ...any) ([]repository.OrderRecord, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.OrderRecord
	for rows.Next() {
		rec := repository.OrderRecord{}
		if err := scanOrderInto(rows, &rec.Order, &rec.CustomerName, &rec.CustomerMobile); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
