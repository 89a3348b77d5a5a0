package application

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmpl "html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/taivex/taivex/internal/domain/entity"
	repo "github.com/taivex/taivex/internal/domain/repository"
	"github.com/taivex/taivex/pkg/helpers"
)

//go:embed invoice.tmpl
var invoiceFS embed.FS

var (
	ErrBillLinkInvalid = errors.New("bill link invalid")
	ErrBillLinkExpired = errors.New("bill link expired")
)

type BillingService struct {
	Orders   repo.OrderRepository
	Profiles repo.ShopProfileRepository
	Signer   *helpers.BillSigner
	Logger   *logrus.Logger

	// BaseURL is the externally visible origin, e.g. https://app.example.com
	BaseURL string
	// SavedBillsDir is the root for invoice snapshots on disk.
	SavedBillsDir string
}

// InvoiceView is the data handed to the invoice template.
type InvoiceView struct {
	Order        *repo.OrderRecord
	Shop         *entity.ShopProfile
	PublicURL    string
	DownloadMode bool
}

func (s *BillingService) template() (*htmpl.Template, error) {
	return htmpl.ParseFS(invoiceFS, "invoice.tmpl")
}

// ShareURL builds the signed public link for the order.
func (s *BillingService) ShareURL(o *entity.Order) string {
	token := s.Signer.Sign(o.ID, o.CreatedAt)
	return fmt.Sprintf("%s/bill/view/%d?token=%s", strings.TrimRight(s.BaseURL, "/"), o.ID, token)
}

// RenderInvoice produces the invoice HTML for the owner's view, including the
// signed share link.
func (s *BillingService) RenderInvoice(ctx context.Context, accountID string, orderID int64, downloadMode bool) ([]byte, error) {
	rec, err := s.Orders.GetRecord(ctx, accountID, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	shop, err := s.Profiles.GetOrCreate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.render(InvoiceView{
		Order:        rec,
		Shop:         shop,
		PublicURL:    s.ShareURL(&rec.Order),
		DownloadMode: downloadMode,
	})
}

// PublicInvoice verifies the share token and renders the bill without any
// tenant session. The order lookup is unscoped; the token is the authority.
func (s *BillingService) PublicInvoice(ctx context.Context, orderID int64, token string) ([]byte, error) {
	rec, err := s.Orders.GetPublic(ctx, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBillLinkInvalid
		}
		return nil, err
	}
	if err := s.Signer.Verify(orderID, token, time.Now()); err != nil {
		if errors.Is(err, helpers.ErrBillTokenExpired) {
			return nil, ErrBillLinkExpired
		}
		return nil, ErrBillLinkInvalid
	}
	shop, err := s.Profiles.Get(ctx, rec.AccountID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if shop == nil {
		shop = &entity.ShopProfile{AccountID: rec.AccountID}
	}
	return s.render(InvoiceView{Order: rec, Shop: shop})
}

func (s *BillingService) render(view InvoiceView) ([]byte, error) {
	tpl, err := s.template()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// snapshotPath mirrors the archive layout: <root>/<account>/<YYYY>/<Month>/.
func (s *BillingService) snapshotPath(rec *repo.OrderRecord, ext string) (string, string) {
	dir := filepath.Join(s.SavedBillsDir, rec.AccountID,
		rec.CreatedAt.Format("2006"), rec.CreatedAt.Format("January"))
	name := fmt.Sprintf("Bill_%s_%s_%d%s",
		sanitizeName(rec.CustomerName), rec.CreatedAt.Format("02-01-2006"), rec.ID, ext)
	return dir, name
}

func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "/", "-")
}

// SaveSnapshot renders the invoice and writes an HTML copy to the archive,
// returning the file path.
func (s *BillingService) SaveSnapshot(ctx context.Context, accountID string, orderID int64) (string, error) {
	rec, err := s.Orders.GetRecord(ctx, accountID, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrOrderNotFound
		}
		return "", err
	}
	html, err := s.RenderInvoice(ctx, accountID, orderID, true)
	if err != nil {
		return "", err
	}
	dir, name := s.snapshotPath(rec, ".html")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// SavePDFCopy stores an uploaded PDF render of the bill and drops the HTML
// snapshot it replaces.
func (s *BillingService) SavePDFCopy(ctx context.Context, accountID string, orderID int64, pdf io.Reader) (string, error) {
	rec, err := s.Orders.GetRecord(ctx, accountID, orderID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrOrderNotFound
		}
		return "", err
	}
	dir, name := s.snapshotPath(rec, ".pdf")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, pdf); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	htmlPath := strings.TrimSuffix(path, ".pdf") + ".html"
	if err := os.Remove(htmlPath); err != nil && !os.IsNotExist(err) {
		s.Logger.WithError(err).WithField("path", htmlPath).Warn("remove html snapshot failed")
	}
	return path, nil
}
