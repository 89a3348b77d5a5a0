package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
)

// fakeExportOrders serves canned records; only the list methods matter here.
type fakeExportOrders struct {
	repo.OrderRepository
	recs []repo.OrderRecord
}

func (f *fakeExportOrders) ListAll(context.Context, string) ([]repo.OrderRecord, error) {
	return f.recs, nil
}

func (f *fakeExportOrders) ListWindow(context.Context, string, entity.Window) ([]repo.OrderRecord, error) {
	return f.recs, nil
}

func exportRecord() repo.OrderRecord {
	return repo.OrderRecord{
		Order: entity.Order{
			ID: 7,
			Items: []entity.LineItem{
				{Name: "Shirt", Qty: 2, Cost: decimal.NewFromInt(400)},
				{Name: "Pant", Qty: 1, Cost: decimal.NewFromInt(600)},
			},
			TotalAmt:    decimal.NewFromInt(1400),
			Advance:     decimal.NewFromInt(1000),
			Balance:     decimal.NewFromInt(400),
			WorkStatus:  entity.StatusWorking,
			PaymentMode: "UPI",
			CreatedAt:   time.Date(2026, time.August, 10, 9, 30, 0, 0, time.UTC),
		},
		CustomerName:   "Asha Patel",
		CustomerMobile: "9900112233",
	}
}

func TestWriteAllOrders(t *testing.T) {
	svc := &ExportService{
		Orders: &fakeExportOrders{recs: []repo.OrderRecord{exportRecord()}},
		Logger: quietLogger(),
	}

	var buf strings.Builder
	require.NoError(t, svc.WriteAllOrders(context.Background(), "acc-1", &buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Order ID,Date,Customer Name,Mobile,Items,Total Amount,Advance,Balance,Status,Payment Mode", lines[0])
	assert.Equal(t, `7,2026-08-10,Asha Patel,9900112233,"Shirt, Pant",1400,1000,400,Working,UPI`, lines[1])
}

func TestWriteRangeOrders(t *testing.T) {
	svc := &ExportService{
		Orders: &fakeExportOrders{recs: []repo.OrderRecord{exportRecord()}},
		Logger: quietLogger(),
	}
	w := entity.RangeWindow(
		time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
	)

	var buf strings.Builder
	require.NoError(t, svc.WriteRange(context.Background(), "acc-1", ExportOrders, w, &buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Order ID,Customer Name,Mobile,Items,Total Amount,Advance,Balance,Status,Date", lines[0])
	assert.Contains(t, lines[1], `"Shirt (x2), Pant (x1)"`)
}

func TestWriteRangeBills(t *testing.T) {
	svc := &ExportService{
		Orders: &fakeExportOrders{recs: []repo.OrderRecord{exportRecord()}},
		Logger: quietLogger(),
	}
	w := entity.RangeWindow(
		time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
	)

	var buf strings.Builder
	require.NoError(t, svc.WriteRange(context.Background(), "acc-1", ExportBills, w, &buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Bill No,Date,Customer,Mobile,Total Amount,Received,Balance,Payment Mode", lines[0])
	assert.Equal(t, "7,10-08-2026,Asha Patel,9900112233,1400,1000,400,UPI", lines[1])
}

func TestWriteRangeUnknownType(t *testing.T) {
	svc := &ExportService{Logger: quietLogger()}
	w := entity.DayWindow(time.Now())

	var buf strings.Builder
	err := svc.WriteRange(context.Background(), "acc-1", "payroll", w, &buf)
	assert.ErrorIs(t, err, ErrUnknownExportType)
}

func TestExportFilename(t *testing.T) {
	svc := &ExportService{}
	w := entity.RangeWindow(
		time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
	)
	assert.Equal(t, "Orders_01-08-2026_to_31-08-2026.csv", svc.Filename(ExportOrders, w))
	assert.Equal(t, "Bills_01-08-2026_to_31-08-2026.csv", svc.Filename(ExportBills, w))
}

func TestItemHelpers(t *testing.T) {
	items := []entity.LineItem{{Name: "Shirt", Qty: 2}, {Name: "Pant", Qty: 1}}
	assert.Equal(t, "Shirt, Pant", itemNames(items))
	assert.Equal(t, "Shirt (x2), Pant (x1)", itemNamesWithQty(items))
}

func TestValueDetails(t *testing.T) {
	vs := entity.ValueSet{
		"Chest":  entity.NumberValue(40),
		"Sleeve": entity.NumberValue(24.5),
		"Fit":    entity.TextValue("loose"),
		"Notes":  entity.TextValue(""),
	}
	assert.Equal(t, "Chest: 40, Fit: loose, Sleeve: 24.5", valueDetails(vs))
}
