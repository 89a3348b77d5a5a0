package application

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
)

var ErrUnknownExportType = errors.New("unknown export type")

// Export data types.
const (
	ExportOrders       = "orders"
	ExportCustomers    = "customers"
	ExportMeasurements = "measurements"
	ExportBills        = "bills"
)

type ExportService struct {
	Orders       repo.OrderRepository
	Customers    repo.CustomerRepository
	Measurements repo.MeasurementRepository
	Logger       *logrus.Logger
}

// WriteAllOrders streams the account's full order history as CSV.
func (s *ExportService) WriteAllOrders(ctx context.Context, accountID string, w io.Writer) error {
	recs, err := s.Orders.ListAll(ctx, accountID)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Order ID", "Date", "Customer Name", "Mobile", "Items",
		"Total Amount", "Advance", "Balance", "Status", "Payment Mode"}); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write([]string{
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.Format("2006-01-02"),
			r.CustomerName,
			r.CustomerMobile,
			itemNames(r.Items),
			r.TotalAmt.String(),
			r.Advance.String(),
			r.Balance.String(),
			r.WorkStatus,
			r.PaymentMode,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename builds the download name for a ranged export.
func (s *ExportService) Filename(dataType string, w entity.Window) string {
	from := w.Start.Format("02-01-2006")
	to := w.End.AddDate(0, 0, -1).Format("02-01-2006")
	t := strings.ToUpper(dataType[:1]) + dataType[1:]
	return fmt.Sprintf("%s_%s_to_%s.csv", t, from, to)
}

// WriteRange streams one data type restricted to the window as CSV.
func (s *ExportService) WriteRange(ctx context.Context, accountID, dataType string, window entity.Window, w io.Writer) error {
	cw := csv.NewWriter(w)
	switch dataType {
	case ExportOrders:
		recs, err := s.Orders.ListWindow(ctx, accountID, window)
		if err != nil {
			return err
		}
		if err := cw.Write([]string{"Order ID", "Customer Name", "Mobile", "Items",
			"Total Amount", "Advance", "Balance", "Status", "Date"}); err != nil {
			return err
		}
		for _, r := range recs {
			if err := cw.Write([]string{
				strconv.FormatInt(r.ID, 10),
				r.CustomerName,
				r.CustomerMobile,
				itemNamesWithQty(r.Items),
				r.TotalAmt.String(),
				r.Advance.String(),
				r.Balance.String(),
				r.WorkStatus,
				r.CreatedAt.Format("2006-01-02"),
			}); err != nil {
				return err
			}
		}

	case ExportCustomers:
		customers, _, err := s.Customers.List(ctx, accountID, repo.CustomerQuery{
			Date: &window, Page: 1, PerPage: 100000,
		})
		if err != nil {
			return err
		}
		ids := make([]string, len(customers))
		for i := range customers {
			ids[i] = customers[i].ID
		}
		stats, err := s.Customers.Stats(ctx, accountID, ids)
		if err != nil {
			return err
		}
		if err := cw.Write([]string{"ID", "Name", "Mobile", "City", "Total Orders",
			"Pending Balance", "Joined Date"}); err != nil {
			return err
		}
		for _, c := range customers {
			st := stats[c.ID]
			if err := cw.Write([]string{
				c.ID,
				c.Name,
				c.Mobile,
				c.City,
				strconv.Itoa(st.OrderCount),
				st.PendingTotal.String(),
				c.CreatedDate.Format("2006-01-02"),
			}); err != nil {
				return err
			}
		}

	case ExportMeasurements:
		recs, err := s.Measurements.ListRange(ctx, accountID, window)
		if err != nil {
			return err
		}
		if err := cw.Write([]string{"ID", "Customer", "Mobile", "Category", "Date", "Details"}); err != nil {
			return err
		}
		for _, m := range recs {
			if err := cw.Write([]string{
				m.ID,
				m.CustomerName,
				m.CustomerMobile,
				m.CategoryName,
				m.Date.Format("2006-01-02"),
				valueDetails(m.Values),
			}); err != nil {
				return err
			}
		}

	case ExportBills:
		recs, err := s.Orders.ListWindow(ctx, accountID, window)
		if err != nil {
			return err
		}
		if err := cw.Write([]string{"Bill No", "Date", "Customer", "Mobile",
			"Total Amount", "Received", "Balance", "Payment Mode"}); err != nil {
			return err
		}
		for _, r := range recs {
			if err := cw.Write([]string{
				strconv.FormatInt(r.ID, 10),
				r.CreatedAt.Format("02-01-2006"),
				r.CustomerName,
				r.CustomerMobile,
				r.TotalAmt.String(),
				r.Advance.String(),
				r.Balance.String(),
				r.PaymentMode,
			}); err != nil {
				return err
			}
		}

	default:
		return ErrUnknownExportType
	}
	cw.Flush()
	return cw.Error()
}

func itemNames(items []entity.LineItem) string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return strings.Join(names, ", ")
}

func itemNamesWithQty(items []entity.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (x%d)", it.Name, it.Qty))
	}
	return strings.Join(parts, ", ")
}

func valueDetails(vs entity.ValueSet) string {
	keys := make([]string, 0, len(vs))
	for k := range vs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if vs[k].Blank() {
			continue
		}
		parts = append(parts, k+": "+vs[k].String())
	}
	return strings.Join(parts, ", ")
}
