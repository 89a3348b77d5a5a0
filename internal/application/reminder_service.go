package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
	"github.com/taivex/taivex/pkg/mailer"
	"github.com/taivex/taivex/pkg/mailer/templates"
)

type ReminderService struct {
	Reminders repo.ReminderRepository
	Customers repo.CustomerRepository
	Orders    repo.OrderRepository
	Profiles  repo.ShopProfileRepository
	Dash      repo.DashboardRepository
	Pub       Publisher
	Logger    *logrus.Logger

	AppName string

	Now func() time.Time
}

func (s *ReminderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

const reminderListLimit = 20

// ReminderView is the reminders screen: deliveries that are overdue or due
// today, deliveries due tomorrow, and the largest outstanding balances.
type ReminderView struct {
	Urgent          []OrderSummary `json:"urgent"`
	Tomorrow        []OrderSummary `json:"tomorrow"`
	PendingPayments []OrderSummary `json:"pending_payments"`
}

func (s *ReminderService) View(ctx context.Context, accountID string) (*ReminderView, error) {
	today := s.now()

	urgent, err := s.Dash.DueOrders(ctx, accountID, today, reminderListLimit*2)
	if err != nil {
		return nil, err
	}
	tomorrow, err := s.Dash.UpcomingOrders(ctx, accountID, today, today.AddDate(0, 0, 1), reminderListLimit*2)
	if err != nil {
		return nil, err
	}
	pending, err := s.Orders.TopPending(ctx, accountID, reminderListLimit)
	if err != nil {
		return nil, err
	}
	return &ReminderView{
		Urgent:          summarize(dropPlaceholders(urgent), reminderListLimit),
		Tomorrow:        summarize(dropPlaceholders(tomorrow), reminderListLimit),
		PendingPayments: summarize(pending, reminderListLimit),
	}, nil
}

type ReminderInput struct {
	CustomerID string
	OrderID    int64
	Type       string
	DueDate    *time.Time
	DueTime    string
	Message    string
}

func (s *ReminderService) Create(ctx context.Context, accountID string, in ReminderInput) (*entity.Reminder, error) {
	if in.CustomerID != "" {
		if _, err := s.Customers.GetByID(ctx, accountID, in.CustomerID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrCustomerNotFound
			}
			return nil, err
		}
	}
	r := &entity.Reminder{
		AccountID:  accountID,
		CustomerID: in.CustomerID,
		OrderID:    in.OrderID,
		Type:       in.Type,
		DueDate:    in.DueDate,
		DueTime:    in.DueTime,
		Message:    in.Message,
		Status:     "Pending",
	}
	if err := s.Reminders.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// SendDeliveryReminder mails the customer that their order is due. Customers
// without an email address are skipped silently; delivery is best effort.
func (s *ReminderService) SendDeliveryReminder(ctx context.Context, accountID string, orderID int64) error {
	rec, err := s.Orders.GetRecord(ctx, accountID, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	c, err := s.Customers.GetByID(ctx, accountID, rec.CustomerID)
	if err != nil {
		return err
	}
	if c.Email == "" || rec.DeliveryDate == nil {
		return nil
	}
	if s.Pub == nil {
		s.Logger.WithField("order_id", orderID).Warn("no mail transport configured, reminder not sent")
		return nil
	}

	profile, err := s.Profiles.GetOrCreate(ctx, accountID)
	if err != nil {
		return err
	}
	job := mailer.EmailJob{
		To:       c.Email,
		Template: templates.DeliveryReminder,
		Data: templates.ToMap(templates.EmailData{
			AppName:      s.AppName,
			ShopName:     profile.ShopName,
			CustomerName: c.Name,
			OrderID:      rec.ID,
			DeliveryDate: rec.DeliveryDate.Format("02 Jan 2006"),
		}),
	}
	return s.Pub.PublishJSON(ctx, job)
}
