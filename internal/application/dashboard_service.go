package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
)

const (
	chartMonths     = 6
	activityLimit   = 5
	urgentLimit     = 5
	upcomingLimit   = 5
	upcomingHorizon = 7 // days
	topCustomers    = 5
)

type DashboardService struct {
	Dash   repo.DashboardRepository
	Logger *logrus.Logger

	Now func() time.Time
}

func (s *DashboardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type ChartPoint struct {
	Label string `json:"label"` // short month name, e.g. "Aug"
	Count int    `json:"count"`
}

type OrderSummary struct {
	ID            int64           `json:"id"`
	CustomerName  string          `json:"customer_name"`
	Mobile        string          `json:"mobile"`
	WorkStatus    string          `json:"work_status"`
	PaymentStatus string          `json:"payment_status"`
	TotalAmt      decimal.Decimal `json:"total_amt"`
	Balance       decimal.Decimal `json:"balance"`
	DeliveryDate  *time.Time      `json:"delivery_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type TopCustomer struct {
	CustomerID string          `json:"customer_id"`
	Name       string          `json:"name"`
	Mobile     string          `json:"mobile"`
	TotalSpend decimal.Decimal `json:"total_spend"`
}

type Overview struct {
	TotalCustomers     int `json:"total_customers"`
	CustomersThisWeek  int `json:"customers_this_week"`
	CustomersToday     int `json:"customers_today"`
	CustomersYesterday int `json:"customers_yesterday"`
	CustomersThisMonth int `json:"customers_this_month"`
	CustomersThisYear  int `json:"customers_this_year"`
	// TodayDelta is today's visits minus yesterday's, for the trend arrow.
	TodayDelta int `json:"today_delta"`

	AllTimeRevenue decimal.Decimal `json:"all_time_revenue"`
	TodayRevenue   decimal.Decimal `json:"today_revenue"`
	MonthRevenue   decimal.Decimal `json:"month_revenue"`
	YearRevenue    decimal.Decimal `json:"year_revenue"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	MonthPending   decimal.Decimal `json:"month_pending"`

	DueToday         int `json:"due_today"`
	PendingDelivery  int `json:"pending_delivery"`

	StatusSummary map[string]int `json:"status_summary"`
	CustomerChart []ChartPoint   `json:"customer_chart"`

	RecentOrders       []OrderSummary `json:"recent_orders"`
	TodayOrders        []OrderSummary `json:"today_orders"`
	UrgentDeliveries   []OrderSummary `json:"urgent_deliveries"`
	UpcomingDeliveries []OrderSummary `json:"upcoming_deliveries"`
	TopCustomers       []TopCustomer  `json:"top_customers"`
}

// Overview computes the whole dashboard against a single "today". Opening
// balance placeholders count toward money totals but are hidden from the
// activity and delivery lists.
func (s *DashboardService) Overview(ctx context.Context, accountID string) (*Overview, error) {
	today := s.now()

	cc, err := s.Dash.CustomerCounts(ctx, accountID, today)
	if err != nil {
		return nil, err
	}
	rev, err := s.Dash.RevenueSums(ctx, accountID, today)
	if err != nil {
		return nil, err
	}
	pend, err := s.Dash.PendingSums(ctx, accountID, today)
	if err != nil {
		return nil, err
	}
	del, err := s.Dash.DeliveryCounts(ctx, accountID, today)
	if err != nil {
		return nil, err
	}
	series, err := s.Dash.MonthlyCustomerSeries(ctx, accountID, chartMonths)
	if err != nil {
		return nil, err
	}
	statuses, err := s.Dash.StatusCounts(ctx, accountID)
	if err != nil {
		return nil, err
	}
	// over-fetch so placeholder rows can be dropped without shorting the list
	recent, err := s.Dash.RecentOrders(ctx, accountID, activityLimit*2)
	if err != nil {
		return nil, err
	}
	todays, err := s.Dash.OrdersCreatedOn(ctx, accountID, today)
	if err != nil {
		return nil, err
	}
	due, err := s.Dash.DueOrders(ctx, accountID, today, urgentLimit*2)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.Dash.UpcomingOrders(ctx, accountID, today, today.AddDate(0, 0, upcomingHorizon), upcomingLimit*2)
	if err != nil {
		return nil, err
	}
	top, err := s.Dash.TopCustomers(ctx, accountID, topCustomers)
	if err != nil {
		return nil, err
	}

	ov := &Overview{
		TotalCustomers:     cc.Total,
		CustomersThisWeek:  cc.ThisWeek,
		CustomersToday:     cc.Today,
		CustomersYesterday: cc.Yesterday,
		CustomersThisMonth: cc.ThisMonth,
		CustomersThisYear:  cc.ThisYear,
		TodayDelta:         cc.Today - cc.Yesterday,

		AllTimeRevenue: rev.AllTime,
		TodayRevenue:   rev.Today,
		MonthRevenue:   rev.Month,
		YearRevenue:    rev.Year,
		PendingBalance: pend.AllTime,
		MonthPending:   pend.Month,

		DueToday:        del.DueToday,
		PendingDelivery: del.Pending,

		StatusSummary: normalizeStatuses(statuses),
		CustomerChart: buildChart(series, today, chartMonths),

		RecentOrders:       summarize(dropPlaceholders(recent), activityLimit),
		TodayOrders:        summarize(dropPlaceholders(todays), 0),
		UrgentDeliveries:   summarize(dropPlaceholders(due), urgentLimit),
		UpcomingDeliveries: summarize(dropPlaceholders(upcoming), upcomingLimit),
		TopCustomers:       make([]TopCustomer, 0, len(top)),
	}
	for _, t := range top {
		ov.TopCustomers = append(ov.TopCustomers, TopCustomer{
			CustomerID: t.CustomerID,
			Name:       t.Name,
			Mobile:     t.Mobile,
			TotalSpend: t.TotalSpend,
		})
	}
	return ov, nil
}

// normalizeStatuses folds raw stored statuses into the reporting buckets.
func normalizeStatuses(counts []repo.StatusCount) map[string]int {
	out := map[string]int{
		entity.StatusWorking:        0,
		entity.StatusReadyToDeliver: 0,
		entity.StatusDelivered:      0,
		entity.StatusOther:          0,
	}
	for _, sc := range counts {
		out[entity.NormalizeWorkStatus(sc.Status)] += sc.Count
	}
	return out
}

// buildChart produces exactly `months` points ending at the current month,
// filling gaps with zero counts.
func buildChart(series []repo.MonthCount, today time.Time, months int) []ChartPoint {
	byMonth := make(map[string]int, len(series))
	for _, mc := range series {
		byMonth[mc.Month.Format("2006-01")] = mc.Count
	}
	out := make([]ChartPoint, 0, months)
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).
		AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		out = append(out, ChartPoint{
			Label: m.Format("Jan"),
			Count: byMonth[m.Format("2006-01")],
		})
	}
	return out
}

func dropPlaceholders(recs []repo.OrderRecord) []repo.OrderRecord {
	out := recs[:0]
	for _, r := range recs {
		if r.OpeningBalance() {
			continue
		}
		out = append(out, r)
	}
	return out
}

func summarize(recs []repo.OrderRecord, limit int) []OrderSummary {
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	out := make([]OrderSummary, 0, len(recs))
	for _, r := range recs {
		out = append(out, OrderSummary{
			ID:            r.ID,
			CustomerName:  r.CustomerName,
			Mobile:        r.CustomerMobile,
			WorkStatus:    entity.NormalizeWorkStatus(r.WorkStatus),
			PaymentStatus: r.PaymentStatus,
			TotalAmt:      r.TotalAmt,
			Balance:       r.Balance,
			DeliveryDate:  r.DeliveryDate,
			CreatedAt:     r.CreatedAt,
		})
	}
	return out
}
