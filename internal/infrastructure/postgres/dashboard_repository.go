package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taivex/taivex/internal/domain/entity"
	"github.com/taivex/taivex/internal/domain/repository"
)

type DashboardRepository struct {
	pool *pgxpool.Pool
}

func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

func (r *DashboardRepository) CustomerCounts(ctx context.Context, accountID string, today time.Time) (repository.CustomerCounts, error) {
	day := entity.DayWindow(today)
	yesterday := entity.DayWindow(today.AddDate(0, 0, -1))
	week := entity.Window{Start: day.Start.AddDate(0, 0, -6), End: day.End}
	month := entity.MonthWindow(today.Year(), today.Month(), today.Location())
	year := entity.YearWindow(today.Year(), today.Location())

	var c repository.CustomerCounts
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE last_visit >= $2 AND last_visit < $3),
			COUNT(*) FILTER (WHERE last_visit >= $4 AND last_visit < $5),
			COUNT(*) FILTER (WHERE last_visit >= $6 AND last_visit < $7),
			COUNT(*) FILTER (WHERE created_date >= $8 AND created_date < $9),
			COUNT(*) FILTER (WHERE created_date >= $10 AND created_date < $11)
		FROM customers
		WHERE account_id = $1
	`, accountID,
		week.Start, week.End,
		day.Start, day.End,
		yesterday.Start, yesterday.End,
		month.Start, month.End,
		year.Start, year.End,
	).Scan(&c.Total, &c.ThisWeek, &c.Today, &c.Yesterday, &c.ThisMonth, &c.ThisYear)
	return c, err
}

func (r *DashboardRepository) RevenueSums(ctx context.Context, accountID string, today time.Time) (repository.RevenueSums, error) {
	day := entity.DayWindow(today)
	month := entity.MonthWindow(today.Year(), today.Month(), today.Location())
	year := entity.YearWindow(today.Year(), today.Location())

	var s repository.RevenueSums
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amt), 0),
			COALESCE(SUM(total_amt) FILTER (WHERE created_at >= $2 AND created_at < $3), 0),
			COALESCE(SUM(total_amt) FILTER (WHERE created_at >= $4 AND created_at < $5), 0),
			COALESCE(SUM(total_amt) FILTER (WHERE created_at >= $6 AND created_at < $7), 0)
		FROM orders
		WHERE account_id = $1
	`, accountID, day.Start, day.End, month.Start, month.End, year.Start, year.End,
	).Scan(&s.AllTime, &s.Today, &s.Month, &s.Year)
	return s, err
}

func (r *DashboardRepository) PendingSums(ctx context.Context, accountID string, today time.Time) (repository.PendingSums, error) {
	month := entity.MonthWindow(today.Year(), today.Month(), today.Location())

	var s repository.PendingSums
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(balance) FILTER (WHERE balance > 0), 0),
			COALESCE(SUM(balance) FILTER (WHERE balance > 0 AND created_at >= $2 AND created_at < $3), 0)
		FROM orders
		WHERE account_id = $1
	`, accountID, month.Start, month.End).Scan(&s.AllTime, &s.Month)
	return s, err
}

func (r *DashboardRepository) DeliveryCounts(ctx context.Context, accountID string, today time.Time) (repository.DeliveryCounts, error) {
	day := entity.DayWindow(today)

	var c repository.DeliveryCounts
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE delivery_date >= $2 AND delivery_date < $3),
			COUNT(*)
		FROM orders
		WHERE account_id = $1 AND work_status <> $4
	`, accountID, day.Start, day.End, entity.StatusDelivered).Scan(&c.DueToday, &c.Pending)
	return c, err
}

func (r *DashboardRepository) MonthlyCustomerSeries(ctx context.Context, accountID string, months int) ([]repository.MonthCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('month', created_date) AS m, COUNT(*)
		FROM customers
		WHERE account_id = $1
			AND created_date >= date_trunc('month', now()) - ($2 - 1) * INTERVAL '1 month'
		GROUP BY m
		ORDER BY m
	`, accountID, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.MonthCount
	for rows.Next() {
		var mc repository.MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

func (r *DashboardRepository) StatusCounts(ctx context.Context, accountID string) ([]repository.StatusCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT work_status, COUNT(*)
		FROM orders
		WHERE account_id = $1
		GROUP BY work_status
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.StatusCount
	for rows.Next() {
		var sc repository.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *DashboardRepository) RecentOrders(ctx context.Context, accountID string, limit int) ([]repository.OrderRecord, error) {
	return r.orders().listRecords(ctx, `
		SELECT `+orderCols+`, c.name, c.mobile
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.account_id = $1
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $2
	`, accountID, limit)
}

func (r *DashboardRepository) OrdersCreatedOn(ctx context.Context, accountID string, day time.Time) ([]repository.OrderRecord, error) {
	w := entity.DayWindow(day)
	return r.orders().listRecords(ctx, `
		SELECT `+orderCols+`, c.name, c.mobile
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.account_id = $1 AND o.created_at >= $2 AND o.created_at < $3
		ORDER BY o.created_at DESC, o.id DESC
	`, accountID, w.Start, w.End)
}

func (r *DashboardRepository) DueOrders(ctx context.Context, accountID string, today time.Time, limit int) ([]repository.OrderRecord, error) {
	end := entity.DayWindow(today).End
	return r.orders().listRecords(ctx, `
		SELECT `+orderCols+`, c.name, c.mobile
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.account_id = $1 AND o.work_status <> $2
			AND o.delivery_date IS NOT NULL AND o.delivery_date < $3
		ORDER BY o.delivery_date, o.id
		LIMIT $4
	`, accountID, entity.StatusDelivered, end, limit)
}

func (r *DashboardRepository) UpcomingOrders(ctx context.Context, accountID string, today, horizon time.Time, limit int) ([]repository.OrderRecord, error) {
	start := entity.DayWindow(today).End
	end := entity.DayWindow(horizon).End
	return r.orders().listRecords(ctx, `
		SELECT `+orderCols+`, c.name, c.mobile
		FROM orders o JOIN customers c ON c.id = o.customer_id
		WHERE o.account_id = $1 AND o.work_status <> $2
			AND o.delivery_date >= $3 AND o.delivery_date < $4
		ORDER BY o.delivery_date, o.id
		LIMIT $5
	`, accountID, entity.StatusDelivered, start, end, limit)
}

func (r *DashboardRepository) TopCustomers(ctx context.Context, accountID string, limit int) ([]repository.CustomerSpend, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.mobile, COALESCE(SUM(o.total_amt), 0) AS spend
		FROM customers c JOIN orders o ON o.customer_id = c.id
		WHERE c.account_id = $1
		GROUP BY c.id, c.name, c.mobile
		ORDER BY spend DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.CustomerSpend
	for rows.Next() {
		var cs repository.CustomerSpend
		if err := rows.Scan(&cs.CustomerID, &cs.Name, &cs.Mobile, &cs.TotalSpend); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

func (r *DashboardRepository) orders() *OrderRepository {
	return &OrderRepository{pool: r.pool}
}

var _ repository.DashboardRepository = (*DashboardRepository)(nil)
