package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
	"github.com/taivex/taivex/pkg/helpers"
)

var ErrCustomerNotFound = errors.New("customer not found")

type CustomerService struct {
	Customers repo.CustomerRepository
	Logger    *logrus.Logger

	GCS       *storage.Client
	GCSBucket string

	ES      *elasticsearch.Client
	ESIndex string
}

// CustomerRow is one customer in list/search responses together with its
// order rollups.
type CustomerRow struct {
	entity.Customer
	OrderCount   int
	PendingTotal decimal.Decimal
}

func (s *CustomerService) Create(ctx context.Context, c *entity.Customer) error {
	if err := s.Customers.Create(ctx, c); err != nil {
		return err
	}
	s.index(ctx, c)
	return nil
}

func (s *CustomerService) Update(ctx context.Context, c *entity.Customer) error {
	if err := s.Customers.Update(ctx, c); err != nil {
		return err
	}
	s.index(ctx, c)
	return nil
}

func (s *CustomerService) Get(ctx context.Context, accountID, id string) (*entity.Customer, error) {
	c, err := s.Customers.GetByID(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) Delete(ctx context.Context, accountID, id string) error {
	if err := s.Customers.Delete(ctx, accountID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCustomerNotFound
		}
		return err
	}
	s.deleteIndex(ctx, id)
	return nil
}

// List returns one page of customers with their order rollups attached.
func (s *CustomerService) List(ctx context.Context, accountID string, q repo.CustomerQuery) ([]CustomerRow, int, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 100 {
		q.PerPage = 20
	}
	customers, total, err := s.Customers.List(ctx, accountID, q)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]string, len(customers))
	for i := range customers {
		ids[i] = customers[i].ID
	}
	stats, err := s.Customers.Stats(ctx, accountID, ids)
	if err != nil {
		return nil, 0, err
	}
	rows := make([]CustomerRow, 0, len(customers))
	for _, c := range customers {
		st := stats[c.ID]
		rows = append(rows, CustomerRow{Customer: c, OrderCount: st.OrderCount, PendingTotal: st.PendingTotal})
	}
	return rows, total, nil
}

// PendingTotal sums the customer's unpaid balances for the detail view.
func (s *CustomerService) PendingTotal(ctx context.Context, accountID, id string) (decimal.Decimal, error) {
	return s.Customers.PendingTotal(ctx, accountID, id)
}

// Touch bumps the customer's last visit, used whenever an order or
// measurement is recorded against them.
func (s *CustomerService) Touch(ctx context.Context, accountID, id string, at time.Time) error {
	c, err := s.Customers.GetByID(ctx, accountID, id)
	if err != nil {
		return err
	}
	c.LastVisit = at
	return s.Customers.Update(ctx, c)
}

// UploadPhoto stores the customer photo in GCS and saves its public URL.
func (s *CustomerService) UploadPhoto(ctx context.Context, accountID, id string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	c, err := s.Get(ctx, accountID, id)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("customers", accountID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	c.Photo = url
	if err := s.Customers.Update(ctx, c); err != nil {
		return "", err
	}
	s.index(ctx, c)
	return url, nil
}

// Search goes to Elasticsearch when wired and falls back to SQL ILIKE.
func (s *CustomerService) Search(ctx context.Context, accountID, query string, limit int) ([]entity.Customer, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if s.ES == nil || s.ESIndex == "" {
		return s.Customers.Search(ctx, accountID, query, limit)
	}

	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"account_id": accountID}},
				},
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  query,
						"fields": []string{"name^2", "mobile"},
					},
				},
			},
		},
		"size": limit,
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		s.Logger.WithError(err).Warn("es search failed, falling back to sql")
		return s.Customers.Search(ctx, accountID, query, limit)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.Customer, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		cust, err := s.Customers.GetByID(ctx, accountID, h.ID)
		if err != nil {
			continue
		}
		out = append(out, *cust)
	}
	return out, nil
}

func (s *CustomerService) index(ctx context.Context, c *entity.Customer) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         c.ID,
		"account_id": c.AccountID,
		"name":       c.Name,
		"mobile":     c.Mobile,
		"city":       c.City,
		"area":       c.Area,
		"gender":     c.Gender,
		"last_visit": c.LastVisit.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: c.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("customer_id", c.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("customer_id", c.ID).Warn("es index response error")
	}
}

func (s *CustomerService) deleteIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("customer_id", id).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}
