package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
	"github.com/taivex/taivex/pkg/helpers"
)

type ShopService struct {
	Profiles     repo.ShopProfileRepository
	Customers    repo.CustomerRepository
	Orders       repo.OrderRepository
	Measurements repo.MeasurementRepository
	Reminders    repo.ReminderRepository
	Logger       *logrus.Logger

	GCS       *storage.Client
	GCSBucket string
}

func (s *ShopService) Profile(ctx context.Context, accountID string) (*entity.ShopProfile, error) {
	return s.Profiles.GetOrCreate(ctx, accountID)
}

type ShopProfileInput struct {
	ShopName     string
	Address      string
	Mobile       string
	GSTNo        string
	Terms        string
	UPIID        string
	BillCreators []string
}

func (s *ShopService) UpdateProfile(ctx context.Context, accountID string, in ShopProfileInput) (*entity.ShopProfile, error) {
	p, err := s.Profiles.GetOrCreate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	p.ShopName = in.ShopName
	p.Address = in.Address
	p.Mobile = in.Mobile
	p.GSTNo = in.GSTNo
	p.Terms = in.Terms
	p.UPIID = in.UPIID
	p.BillCreators = in.BillCreators
	if err := s.Profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UploadLogo stores the shop logo in GCS and saves its public URL.
func (s *ShopService) UploadLogo(ctx context.Context, accountID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	p, err := s.Profiles.GetOrCreate(ctx, accountID)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("logos", accountID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	p.Logo = url
	if err := s.Profiles.Update(ctx, p); err != nil {
		return "", err
	}
	return url, nil
}

// DeleteLogo removes the stored logo object and clears the profile URL.
func (s *ShopService) DeleteLogo(ctx context.Context, accountID string) error {
	p, err := s.Profiles.GetOrCreate(ctx, accountID)
	if err != nil {
		return err
	}
	if p.Logo == "" {
		return nil
	}
	if s.GCS != nil && s.GCSBucket != "" {
		prefix := helpers.PublicURL(s.GCSBucket, "")
		if objectPath, ok := strings.CutPrefix(p.Logo, prefix); ok {
			if err := helpers.DeleteObject(ctx, s.GCS, s.GCSBucket, objectPath); err != nil {
				s.Logger.WithError(err).WithField("object", objectPath).Warn("delete logo object failed")
			}
		}
	}
	p.Logo = ""
	return s.Profiles.Update(ctx, p)
}

// WipeData deletes every business record of the account: customers (with
// their measurements, orders and reminders via cascade) plus any stragglers
// not attached to a customer. The account and shop profile stay.
func (s *ShopService) WipeData(ctx context.Context, accountID string) error {
	if err := s.Customers.DeleteAll(ctx, accountID); err != nil {
		return err
	}
	if err := s.Orders.DeleteAll(ctx, accountID); err != nil {
		return err
	}
	if err := s.Measurements.DeleteAll(ctx, accountID); err != nil {
		return err
	}
	if err := s.Reminders.DeleteAll(ctx, accountID); err != nil {
		return err
	}
	s.Logger.WithField("account_id", accountID).Info("account data wiped")
	return nil
}
