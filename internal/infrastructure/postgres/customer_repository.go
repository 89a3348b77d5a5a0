package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/taivex/taivex/internal/domain/entity"
	"github.com/taivex/taivex/internal/domain/repository"
)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

const customerCols = `id, account_id, name, mobile, alt_mobile, email, address, city, area,
	whatsapp, gender, photo, notes, style_pref, birthday, created_date, last_visit`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	c := &entity.Customer{}
	err := row.Scan(&c.ID, &c.AccountID, &c.Name, &c.Mobile, &c.AltMobile, &c.Email,
		&c.Address, &c.City, &c.Area, &c.Whatsapp, &c.Gender, &c.Photo, &c.Notes,
		&c.StylePref, &c.Birthday, &c.CreatedDate, &c.LastVisit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO customers (account_id, name, mobile, alt_mobile, email, address, city, area,
			whatsapp, gender, photo, notes, style_pref, birthday, last_visit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())
		RETURNING id, created_date, last_visit
	`, c.AccountID, c.Name, c.Mobile, c.AltMobile, c.Email, c.Address, c.City, c.Area,
		c.Whatsapp, c.Gender, c.Photo, c.Notes, c.StylePref, c.Birthday)

	if err := row.Scan(&c.ID, &c.CreatedDate, &c.LastVisit); err != nil {
		if isUniqueViolation(err, "customers_account_id_mobile_key") {
			return repository.ErrDuplicateMobile
		}
		return err
	}
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE customers
		SET name = $1, mobile = $2, alt_mobile = $3, email = $4, address = $5, city = $6,
			area = $7, whatsapp = $8, gender = $9, photo = $10, notes = $11,
			style_pref = $12, birthday = $13, last_visit = $14
		WHERE id = $15 AND account_id = $16
	`, c.Name, c.Mobile, c.AltMobile, c.Email, c.Address, c.City, c.Area, c.Whatsapp,
		c.Gender, c.Photo, c.Notes, c.StylePref, c.Birthday, c.LastVisit, c.ID, c.AccountID)
	if err != nil {
		if isUniqueViolation(err, "customers_account_id_mobile_key") {
			return repository.ErrDuplicateMobile
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, accountID, id string) error {
	// measurements, orders and reminders go with the row via FK cascade
	res, err := r.pool.Exec(ctx, `
		DELETE FROM customers WHERE id = $1 AND account_id = $2
	`, id, accountID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, accountID, id string) (*entity.Customer, error) {
	return scanCustomer(r.pool.QueryRow(ctx, `
		SELECT `+customerCols+` FROM customers WHERE id = $1 AND account_id = $2
	`, id, accountID))
}

func (r *CustomerRepository) List(ctx context.Context, accountID string, q repository.CustomerQuery) ([]entity.Customer, int, error) {
	where := []string{"account_id = $1"}
	args := []any{accountID}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if s := strings.TrimSpace(q.Search); s != "" {
		p := arg("%" + s + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %s OR mobile LIKE %s)", p, p))
	}
	if q.Gender != "" {
		where = append(where, "gender = "+arg(q.Gender))
	}
	w := q.Window
	if q.Date != nil {
		w = *q.Date
	}
	if !w.Start.IsZero() {
		where = append(where, "last_visit >= "+arg(w.Start), "last_visit < "+arg(w.End))
	}
	switch q.Status {
	case "pending":
		where = append(where, `EXISTS (
			SELECT 1 FROM orders o WHERE o.customer_id = customers.id AND o.balance > 0
		)`)
	case "paid":
		where = append(where, `NOT EXISTS (
			SELECT 1 FROM orders o WHERE o.customer_id = customers.id AND o.balance > 0
		)`)
	}

	sql := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM customers
		WHERE %s
		ORDER BY last_visit DESC, id
		LIMIT %s OFFSET %s
	`, customerCols, strings.Join(where, " AND "),
		arg(q.PerPage), arg((q.Page-1)*q.PerPage))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []entity.Customer
	total := 0
	for rows.Next() {
		c := entity.Customer{}
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Name, &c.Mobile, &c.AltMobile, &c.Email,
			&c.Address, &c.City, &c.Area, &c.Whatsapp, &c.Gender, &c.Photo, &c.Notes,
			&c.StylePref, &c.Birthday, &c.CreatedDate, &c.LastVisit, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *CustomerRepository) Stats(ctx context.Context, accountID string, customerIDs []string) (map[string]repository.CustomerStats, error) {
	out := make(map[string]repository.CustomerStats, len(customerIDs))
	if len(customerIDs) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT customer_id, COUNT(*),
			COALESCE(SUM(balance) FILTER (WHERE balance > 0), 0)
		FROM orders
		WHERE account_id = $1 AND customer_id = ANY($2)
		GROUP BY customer_id
	`, accountID, customerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var st repository.CustomerStats
		if err := rows.Scan(&id, &st.OrderCount, &st.PendingTotal); err != nil {
			return nil, err
		}
		out[id] = st
	}
	return out, rows.Err()
}

func (r *CustomerRepository) Search(ctx context.Context, accountID, query string, limit int) ([]entity.Customer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+customerCols+`
		FROM customers
		WHERE account_id = $1 AND (name ILIKE $2 OR mobile LIKE $2)
		ORDER BY last_visit DESC
		LIMIT $3
	`, accountID, "%"+strings.TrimSpace(query)+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Customer
	for rows.Next() {
		c := entity.Customer{}
		if err := rows.Scan(&c.ID, &c.AccountID, &c.Name, &c.Mobile, &c.AltMobile, &c.Email,
			&c.Address, &c.City, &c.Area, &c.Whatsapp, &c.Gender, &c.Photo, &c.Notes,
			&c.StylePref, &c.Birthday, &c.CreatedDate, &c.LastVisit); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CustomerRepository) PendingTotal(ctx context.Context, accountID, customerID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(balance) FILTER (WHERE balance > 0), 0)
		FROM orders
		WHERE account_id = $1 AND customer_id = $2
	`, accountID, customerID).Scan(&total)
	return total, err
}

func (r *CustomerRepository) DeleteAll(ctx context.Context, accountID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE account_id = $1`, accountID)
	return err
}

var _ repository.CustomerRepository = (*CustomerRepository)(nil)
