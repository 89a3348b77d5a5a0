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

// fakeDash returns canned rows for every dashboard query.
type fakeDash struct {
	counts   repo.CustomerCounts
	revenue  repo.RevenueSums
	pending  repo.PendingSums
	delivery repo.DeliveryCounts
	series   []repo.MonthCount
	statuses []repo.StatusCount
	recent   []repo.OrderRecord
	todays   []repo.OrderRecord
	due      []repo.OrderRecord
	upcoming []repo.OrderRecord
	top      []repo.CustomerSpend
}

func (f *fakeDash) CustomerCounts(context.Context, string, time.Time) (repo.CustomerCounts, error) {
	return f.counts, nil
}
func (f *fakeDash) RevenueSums(context.Context, string, time.Time) (repo.RevenueSums, error) {
	return f.revenue, nil
}
func (f *fakeDash) PendingSums(context.Context, string, time.Time) (repo.PendingSums, error) {
	return f.pending, nil
}
func (f *fakeDash) DeliveryCounts(context.Context, string, time.Time) (repo.DeliveryCounts, error) {
	return f.delivery, nil
}
func (f *fakeDash) MonthlyCustomerSeries(context.Context, string, int) ([]repo.MonthCount, error) {
	return f.series, nil
}
func (f *fakeDash) StatusCounts(context.Context, string) ([]repo.StatusCount, error) {
	return f.statuses, nil
}
func (f *fakeDash) RecentOrders(context.Context, string, int) ([]repo.OrderRecord, error) {
	return f.recent, nil
}
func (f *fakeDash) OrdersCreatedOn(context.Context, string, time.Time) ([]repo.OrderRecord, error) {
	return f.todays, nil
}
func (f *fakeDash) DueOrders(context.Context, string, time.Time, int) ([]repo.OrderRecord, error) {
	return f.due, nil
}
func (f *fakeDash) UpcomingOrders(context.Context, string, time.Time, time.Time, int) ([]repo.OrderRecord, error) {
	return f.upcoming, nil
}
func (f *fakeDash) TopCustomers(context.Context, string, int) ([]repo.CustomerSpend, error) {
	return f.top, nil
}

func record(id int64, name, status string, item string) repo.OrderRecord {
	return repo.OrderRecord{
		Order: entity.Order{
			ID:         id,
			WorkStatus: status,
			Items:      []entity.LineItem{{Name: item, Qty: 1}},
		},
		CustomerName: name,
	}
}

func TestNormalizeStatuses(t *testing.T) {
	out := normalizeStatuses([]repo.StatusCount{
		{Status: "Working", Count: 3},
		{Status: "Pending", Count: 2},
		{Status: "Processing", Count: 1},
		{Status: "Ready", Count: 4},
		{Status: "Delivered", Count: 5},
		{Status: "something else", Count: 7},
	})

	assert.Equal(t, 6, out[entity.StatusWorking])
	assert.Equal(t, 4, out[entity.StatusReadyToDeliver])
	assert.Equal(t, 5, out[entity.StatusDelivered])
	assert.Equal(t, 7, out[entity.StatusOther])
}

func TestNormalizeStatusesAlwaysHasBuckets(t *testing.T) {
	out := normalizeStatuses(nil)
	assert.Len(t, out, 4)
	assert.Contains(t, out, entity.StatusWorking)
	assert.Contains(t, out, entity.StatusDelivered)
}

func TestBuildChart(t *testing.T) {
	today := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	series := []repo.MonthCount{
		{Month: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), Count: 2},
		{Month: time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), Count: 9},
	}

	chart := buildChart(series, today, 6)
	require.Len(t, chart, 6)

	labels := make([]string, 0, len(chart))
	counts := make([]int, 0, len(chart))
	for _, p := range chart {
		labels = append(labels, p.Label)
		counts = append(counts, p.Count)
	}
	assert.Equal(t, []string{"Mar", "Apr", "May", "Jun", "Jul", "Aug"}, labels)
	assert.Equal(t, []int{0, 2, 0, 0, 0, 9}, counts)
}

func TestDropPlaceholders(t *testing.T) {
	recs := []repo.OrderRecord{
		record(1, "A", entity.StatusWorking, "Shirt"),
		record(2, "B", entity.StatusDelivered, entity.PreviousBalanceItem),
		record(3, "C", entity.StatusWorking, "Pant"),
	}

	out := dropPlaceholders(recs)
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(3), out[1].ID)
}

func TestSummarize(t *testing.T) {
	recs := []repo.OrderRecord{
		record(1, "A", "Pending", "Shirt"),
		record(2, "B", "Ready", "Pant"),
		record(3, "C", "Delivered", "Kurta"),
	}

	out := summarize(recs, 2)
	require.Len(t, out, 2)
	assert.Equal(t, entity.StatusWorking, out[0].WorkStatus)
	assert.Equal(t, entity.StatusReadyToDeliver, out[1].WorkStatus)

	// limit 0 means no cap
	assert.Len(t, summarize(recs, 0), 3)
}

func TestOverview(t *testing.T) {
	dash := &fakeDash{
		counts:  repo.CustomerCounts{Total: 40, Today: 5, Yesterday: 2, ThisWeek: 9},
		revenue: repo.RevenueSums{AllTime: decimal.NewFromInt(120000)},
		pending: repo.PendingSums{AllTime: decimal.NewFromInt(4500)},
		delivery: repo.DeliveryCounts{
			DueToday: 3,
			Pending:  11,
		},
		statuses: []repo.StatusCount{{Status: "Working", Count: 11}},
		recent: []repo.OrderRecord{
			record(9, "Asha", "Working", entity.PreviousBalanceItem),
			record(8, "Ravi", "Working", "Shirt"),
		},
		top: []repo.CustomerSpend{
			{CustomerID: "c-1", Name: "Asha", Mobile: "9900112233", TotalSpend: decimal.NewFromInt(8000)},
		},
	}
	svc := &DashboardService{
		Dash:   dash,
		Logger: quietLogger(),
		Now: func() time.Time {
			return time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC)
		},
	}

	ov, err := svc.Overview(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.Equal(t, 40, ov.TotalCustomers)
	assert.Equal(t, 3, ov.TodayDelta)
	assert.True(t, ov.AllTimeRevenue.Equal(decimal.NewFromInt(120000)))
	assert.True(t, ov.PendingBalance.Equal(decimal.NewFromInt(4500)))
	assert.Equal(t, 3, ov.DueToday)
	assert.Equal(t, 11, ov.StatusSummary[entity.StatusWorking])
	assert.Len(t, ov.CustomerChart, 6)
	assert.Equal(t, "Aug", ov.CustomerChart[5].Label)

	// placeholder rows never show in the activity feed
	require.Len(t, ov.RecentOrders, 1)
	assert.Equal(t, int64(8), ov.RecentOrders[0].ID)

	require.Len(t, ov.TopCustomers, 1)
	assert.Equal(t, "Asha", ov.TopCustomers[0].Name)
}
