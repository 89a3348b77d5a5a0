package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taivex/taivex/internal/domain/entity"
	"github.com/taivex/taivex/internal/domain/repository"
)

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// account_id is NULL for shared system categories.
func scanCategory(row pgx.Row) (*entity.Category, error) {
	c := &entity.Category{}
	var acct *string
	err := row.Scan(&c.ID, &acct, &c.Name, &c.Gender, &c.IsCustom, &c.Fields)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if acct != nil {
		c.AccountID = *acct
	}
	return c, nil
}

func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (account_id, name, gender, is_custom, fields)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, nullableID(c.AccountID), c.Name, c.Gender, c.IsCustom, c.Fields)
	return row.Scan(&c.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, accountID, id string) error {
	// system rows have no account_id and cannot be deleted through here
	res, err := r.pool.Exec(ctx, `
		DELETE FROM categories WHERE id = $1 AND account_id = $2
	`, id, accountID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `
		SELECT id, account_id, name, gender, is_custom, fields FROM categories WHERE id = $1
	`, id))
}

func (r *CategoryRepository) ListOwn(ctx context.Context, accountID, gender string) ([]entity.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, name, gender, is_custom, fields
		FROM categories
		WHERE (account_id = $1 OR account_id IS NULL) AND gender = $2
		ORDER BY is_custom, name
	`, accountID, gender)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) FindByName(ctx context.Context, accountID, gender, name string) (*entity.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `
		SELECT id, account_id, name, gender, is_custom, fields
		FROM categories
		WHERE (account_id = $1 OR account_id IS NULL) AND gender = $2 AND lower(name) = lower($3)
		ORDER BY account_id NULLS LAST
		LIMIT 1
	`, accountID, gender, name))
}

func (r *CategoryRepository) UsageCount(ctx context.Context, accountID, id string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM measurements WHERE account_id = $1 AND category_id = $2
	`, accountID, id).Scan(&n)
	return n, err
}

func (r *CategoryRepository) SeedSystem(ctx context.Context, cats []entity.Category) error {
	for i := range cats {
		c := &cats[i]
		err := r.pool.QueryRow(ctx, `
			INSERT INTO categories (account_id, name, gender, is_custom, fields)
			VALUES (NULL, $1, $2, FALSE, $3)
			RETURNING id
		`, c.Name, c.Gender, c.Fields).Scan(&c.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *CategoryRepository) HasSystem(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM categories WHERE account_id IS NULL)
	`).Scan(&exists)
	return exists, err
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)
