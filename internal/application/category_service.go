package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryInUse    = errors.New("category has measurements")
	ErrCategorySystem   = errors.New("system categories cannot be deleted")
)

type CategoryService struct {
	Categories repo.CategoryRepository
	Logger     *logrus.Logger
}

// List returns the system categories plus the account's custom ones for a
// gender.
func (s *CategoryService) List(ctx context.Context, accountID, gender string) ([]entity.Category, error) {
	return s.Categories.ListOwn(ctx, accountID, gender)
}

// CreateCustom adds an account-private category; names are unique per gender
// case-insensitively, against system categories too.
func (s *CategoryService) CreateCustom(ctx context.Context, accountID, gender, name string, fields []string) (*entity.Category, error) {
	if _, err := s.Categories.FindByName(ctx, accountID, gender, name); err == nil {
		return nil, ErrCategoryExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	c := &entity.Category{
		AccountID: accountID,
		Name:      name,
		Gender:    gender,
		IsCustom:  true,
		Fields:    fields,
	}
	if err := s.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a custom category unless measurements reference it.
func (s *CategoryService) Delete(ctx context.Context, accountID, id string) error {
	c, err := s.Categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if c.System() || c.AccountID != accountID {
		return ErrCategorySystem
	}
	n, err := s.Categories.UsageCount(ctx, accountID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryInUse
	}
	if err := s.Categories.Delete(ctx, accountID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

// EnsureSystem seeds the shared system categories once.
func (s *CategoryService) EnsureSystem(ctx context.Context, cats []entity.Category) error {
	has, err := s.Categories.HasSystem(ctx)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	s.Logger.WithField("count", len(cats)).Info("seeding system categories")
	return s.Categories.SeedSystem(ctx, cats)
}
