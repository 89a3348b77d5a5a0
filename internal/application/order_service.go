package application

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderService struct {
	Orders    repo.OrderRepository
	Customers repo.CustomerRepository
	Logger    *logrus.Logger

	Now func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// OrderInput is the mutable part of an order; balance and payment status are
// always derived server-side.
type OrderInput struct {
	CustomerID    string
	Items         []entity.LineItem
	StartDate     *time.Time
	DeliveryDate  *time.Time
	TrialDate     *time.Time
	WorkStatus    string
	TotalAmt      decimal.Decimal
	Advance       decimal.Decimal
	PaymentMode   string
	BillCreatedBy string
	Notes         string
}

func (s *OrderService) Create(ctx context.Context, accountID string, in OrderInput) (*entity.Order, error) {
	// the customer must belong to the account
	c, err := s.Customers.GetByID(ctx, accountID, in.CustomerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	o := &entity.Order{
		AccountID:     accountID,
		CustomerID:    in.CustomerID,
		Items:         in.Items,
		StartDate:     in.StartDate,
		DeliveryDate:  in.DeliveryDate,
		TrialDate:     in.TrialDate,
		WorkStatus:    in.WorkStatus,
		TotalAmt:      in.TotalAmt,
		Advance:       in.Advance,
		PaymentMode:   in.PaymentMode,
		BillCreatedBy: in.BillCreatedBy,
		Notes:         in.Notes,
	}
	if o.WorkStatus == "" {
		o.WorkStatus = entity.StatusWorking
	}
	o.Balance, o.PaymentStatus = entity.DerivePayment(o.TotalAmt, o.Advance)

	if err := s.Orders.Create(ctx, o); err != nil {
		return nil, err
	}

	c.LastVisit = s.now()
	if err := s.Customers.Update(ctx, c); err != nil {
		s.Logger.WithError(err).WithField("customer_id", c.ID).Warn("bump last visit failed")
	}
	return o, nil
}

func (s *OrderService) Update(ctx context.Context, accountID string, id int64, in OrderInput) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if in.CustomerID != "" && in.CustomerID != o.CustomerID {
		if _, err := s.Customers.GetByID(ctx, accountID, in.CustomerID); err != nil {
			return nil, ErrCustomerNotFound
		}
		o.CustomerID = in.CustomerID
	}
	o.Items = in.Items
	o.StartDate = in.StartDate
	o.DeliveryDate = in.DeliveryDate
	o.TrialDate = in.TrialDate
	if in.WorkStatus != "" {
		o.WorkStatus = in.WorkStatus
	}
	o.TotalAmt = in.TotalAmt
	o.Advance = in.Advance
	o.PaymentMode = in.PaymentMode
	o.BillCreatedBy = in.BillCreatedBy
	o.Notes = in.Notes
	o.Balance, o.PaymentStatus = entity.DerivePayment(o.TotalAmt, o.Advance)

	if err := s.Orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// SetStatus updates just the work status, the common quick action.
func (s *OrderService) SetStatus(ctx context.Context, accountID string, id int64, status string) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	o.WorkStatus = status
	if err := s.Orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// RecordPayment adds to the advance and re-derives balance and status.
func (s *OrderService) RecordPayment(ctx context.Context, accountID string, id int64, amount decimal.Decimal, mode string) (*entity.Order, error) {
	o, err := s.Orders.GetByID(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	o.Advance = o.Advance.Add(amount)
	if mode != "" {
		o.PaymentMode = mode
	}
	o.Balance, o.PaymentStatus = entity.DerivePayment(o.TotalAmt, o.Advance)
	if err := s.Orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) Get(ctx context.Context, accountID string, id int64) (*repo.OrderRecord, error) {
	rec, err := s.Orders.GetRecord(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *OrderService) Delete(ctx context.Context, accountID string, id int64) error {
	if err := s.Orders.Delete(ctx, accountID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	return nil
}

// List pages orders within the query's window; callers default the window to
// the current month.
func (s *OrderService) List(ctx context.Context, accountID string, q repo.OrderQuery) ([]repo.OrderRecord, int, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 100 {
		q.PerPage = 20
	}
	return s.Orders.List(ctx, accountID, q)
}
