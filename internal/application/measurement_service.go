package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
)

var (
	ErrMeasurementNotFound = errors.New("measurement not found")
	ErrMeasurementEmpty    = errors.New("measurement has no values")
)

type MeasurementService struct {
	Measurements repo.MeasurementRepository
	Categories   repo.CategoryRepository
	Customers    repo.CustomerRepository
	Logger       *logrus.Logger

	Now func() time.Time
}

func (s *MeasurementService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Save records a new measurement set for the customer. If the values are
// identical to the latest active set for the same category, no new row is
// written and the existing one is returned with created=false. The customer's
// last visit is bumped either way.
func (s *MeasurementService) Save(ctx context.Context, accountID, customerID, categoryID string, values entity.ValueSet, remarks string) (*entity.Measurement, bool, error) {
	if values.Empty() {
		return nil, false, ErrMeasurementEmpty
	}
	c, err := s.Customers.GetByID(ctx, accountID, customerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, false, ErrCustomerNotFound
		}
		return nil, false, err
	}
	if _, err := s.Categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, false, ErrMeasurementNotFound
		}
		return nil, false, err
	}

	now := s.now()
	c.LastVisit = now
	if err := s.Customers.Update(ctx, c); err != nil {
		s.Logger.WithError(err).WithField("customer_id", c.ID).Warn("bump last visit failed")
	}

	last, err := s.Measurements.LastActive(ctx, accountID, customerID, categoryID)
	if err == nil && last.Values.Equal(values) {
		return last, false, nil
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, false, err
	}

	m := &entity.Measurement{
		AccountID:  accountID,
		CustomerID: customerID,
		CategoryID: categoryID,
		Date:       now,
		Values:     values,
		Remarks:    remarks,
		IsActive:   true,
	}
	if err := s.Measurements.Create(ctx, m); err != nil {
		return nil, false, err
	}
	return m, true, nil
}

func (s *MeasurementService) Get(ctx context.Context, accountID, id string) (*entity.Measurement, error) {
	m, err := s.Measurements.GetByID(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMeasurementNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *MeasurementService) Delete(ctx context.Context, accountID, id string) error {
	if err := s.Measurements.Delete(ctx, accountID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrMeasurementNotFound
		}
		return err
	}
	return nil
}

// LastActive fetches the newest active measurement for prefilling forms.
func (s *MeasurementService) LastActive(ctx context.Context, accountID, customerID, categoryID string) (*entity.Measurement, error) {
	m, err := s.Measurements.LastActive(ctx, accountID, customerID, categoryID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMeasurementNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *MeasurementService) ListWindow(ctx context.Context, accountID string, w entity.Window, page, perPage int) ([]repo.MeasurementRecord, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.Measurements.ListWindow(ctx, accountID, w, page, perPage)
}

func (s *MeasurementService) ListByCustomer(ctx context.Context, accountID, customerID string) ([]repo.MeasurementRecord, error) {
	return s.Measurements.ListByCustomer(ctx, accountID, customerID)
}
