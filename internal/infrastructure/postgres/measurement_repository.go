package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taivex/taivex/internal/domain/entity"
	"github.com/taivex/taivex/internal/domain/repository"
)

type MeasurementRepository struct {
	pool *pgxpool.Pool
}

func NewMeasurementRepository(pool *pgxpool.Pool) *MeasurementRepository {
	return &MeasurementRepository{pool: pool}
}

const measurementCols = `m.id, m.account_id, m.customer_id, m.category_id, m.date,
	m.data, m.remarks, m.is_active`

func scanMeasurementInto(row pgx.Row, m *entity.Measurement, extra ...any) error {
	var raw []byte
	dest := []any{&m.ID, &m.AccountID, &m.CustomerID, &m.CategoryID, &m.Date,
		&raw, &m.Remarks, &m.IsActive}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(raw, &m.Values)
}

func (r *MeasurementRepository) Create(ctx context.Context, m *entity.Measurement) error {
	values, err := json.Marshal(m.Values)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO measurements (account_id, customer_id, category_id, date, data, remarks, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, m.AccountID, m.CustomerID, m.CategoryID, m.Date, values, m.Remarks, m.IsActive)
	return row.Scan(&m.ID)
}

func (r *MeasurementRepository) Delete(ctx context.Context, accountID, id string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM measurements WHERE id = $1 AND account_id = $2
	`, id, accountID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MeasurementRepository) GetByID(ctx context.Context, accountID, id string) (*entity.Measurement, error) {
	m := &entity.Measurement{}
	err := scanMeasurementInto(r.pool.QueryRow(ctx, `
		SELECT `+measurementCols+` FROM measurements m WHERE m.id = $1 AND m.account_id = $2
	`, id, accountID), m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MeasurementRepository) LastActive(ctx context.Context, accountID, customerID, categoryID string) (*entity.Measurement, error) {
	m := &entity.Measurement{}
	err := scanMeasurementInto(r.pool.QueryRow(ctx, `
		SELECT `+measurementCols+`
		FROM measurements m
		WHERE m.account_id = $1 AND m.customer_id = $2 AND m.category_id = $3 AND m.is_active
		ORDER BY m.date DESC
		LIMIT 1
	`, accountID, customerID, categoryID), m)
	if err != nil {
		return nil, err
	}
	return m, nil
}

const measurementJoin = `
	FROM measurements m
	JOIN customers c ON c.id = m.customer_id
	JOIN categories cat ON cat.id = m.category_id`

func (r *MeasurementRepository) ListWindow(ctx context.Context, accountID string, w entity.Window, page, perPage int) ([]repository.MeasurementRecord, int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+measurementCols+`, c.name, c.mobile, cat.name, COUNT(*) OVER() AS total
		`+measurementJoin+`
		WHERE m.account_id = $1 AND m.date >= $2 AND m.date < $3
		ORDER BY m.date DESC, m.id
		LIMIT $4 OFFSET $5
	`, accountID, w.Start, w.End, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []repository.MeasurementRecord
	total := 0
	for rows.Next() {
		rec := repository.MeasurementRecord{}
		if err := scanMeasurementInto(rows, &rec.Measurement,
			&rec.CustomerName, &rec.CustomerMobile, &rec.CategoryName, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func (r *MeasurementRepository) ListByCustomer(ctx context.Context, accountID, customerID string) ([]repository.MeasurementRecord, error) {
	return r.listRecords(ctx, `
		SELECT `+measurementCols+`, c.name, c.mobile, cat.name
		`+measurementJoin+`
		WHERE m.account_id = $1 AND m.customer_id = $2
		ORDER BY m.date DESC, m.id
	`, accountID, customerID)
}

func (r *MeasurementRepository) ListRange(ctx context.Context, accountID string, w entity.Window) ([]repository.MeasurementRecord, error) {
	return r.listRecords(ctx, `
		SELECT `+measurementCols+`, c.name, c.mobile, cat.name
		`+measurementJoin+`
		WHERE m.account_id = $1 AND m.date >= $2 AND m.date < $3
		ORDER BY m.date DESC, m.id
	`, accountID, w.Start, w.End)
}

func (r *MeasurementRepository) DeleteAll(ctx context.Context, accountID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM measurements WHERE account_id = $1`, accountID)
	return err
}

func (r *MeasurementRepository) listRecords(ctx context.Context, sql string, args ...any) ([]repository.MeasurementRecord, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.MeasurementRecord
	for rows.Next() {
		rec := repository.MeasurementRecord{}
		if err := scanMeasurementInto(rows, &rec.Measurement,
			&rec.CustomerName, &rec.CustomerMobile, &rec.CategoryName); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ repository.MeasurementRepository = (*MeasurementRepository)(nil)
