package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taivex/taivex/internal/domain/entity"
	"github.com/taivex/taivex/internal/domain/repository"
)

type ShopProfileRepository struct {
	pool *pgxpool.Pool
}

func NewShopProfileRepository(pool *pgxpool.Pool) *ShopProfileRepository {
	return &ShopProfileRepository{pool: pool}
}

const profileCols = `id, account_id, shop_name, address, mobile, gst_no, terms, upi_id, logo, bill_creators`

func scanProfile(row pgx.Row) (*entity.ShopProfile, error) {
	p := &entity.ShopProfile{}
	err := row.Scan(&p.ID, &p.AccountID, &p.ShopName, &p.Address, &p.Mobile,
		&p.GSTNo, &p.Terms, &p.UPIID, &p.Logo, &p.BillCreators)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ShopProfileRepository) Get(ctx context.Context, accountID string) (*entity.ShopProfile, error) {
	return scanProfile(r.pool.QueryRow(ctx, `
		SELECT `+profileCols+` FROM shop_profiles WHERE account_id = $1
	`, accountID))
}

func (r *ShopProfileRepository) GetOrCreate(ctx context.Context, accountID string) (*entity.ShopProfile, error) {
	p, err := r.Get(ctx, accountID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return scanProfile(r.pool.QueryRow(ctx, `
		INSERT INTO shop_profiles (account_id)
		VALUES ($1)
		ON CONFLICT (account_id) DO UPDATE SET account_id = EXCLUDED.account_id
		RETURNING `+profileCols+`
	`, accountID))
}

func (r *ShopProfileRepository) Update(ctx context.Context, p *entity.ShopProfile) error {
	creators := p.BillCreators
	if creators == nil {
		creators = []string{}
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE shop_profiles
		SET shop_name = $1, address = $2, mobile = $3, gst_no = $4, terms = $5,
			upi_id = $6, logo = $7, bill_creators = $8
		WHERE account_id = $9
	`, p.ShopName, p.Address, p.Mobile, p.GSTNo, p.Terms, p.UPIID, p.Logo, creators, p.AccountID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ShopProfileRepository = (*ShopProfileRepository)(nil)
