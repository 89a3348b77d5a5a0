package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names.
const (
	OTPCode          = "otp_code"
	DeliveryReminder = "delivery_reminder"
)

// EmailData defines the fields the email templates render.
type EmailData struct {
	Name     string `json:"Name"`
	ShopName string `json:"ShopName"`
	AppName  string `json:"AppName"`

	// OTP emails
	Code          string `json:"Code"`
	Purpose       string `json:"Purpose"` // "login" or "reset"
	ExpiresAtText string `json:"ExpiresAtText"`

	// Delivery reminder emails
	CustomerName string `json:"CustomerName"`
	OrderID      int64  `json:"OrderID"`
	DeliveryDate string `json:"DeliveryDate"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// WithExpiry formats the expiry into the text form the templates expect.
func (d EmailData) WithExpiry(t time.Time) EmailData {
	d.ExpiresAtText = t.UTC().Format("02 January 2006, 15:04")
	return d
}

func renderFile(filename string, isHTML bool, data any) (string, error) {
	var buf bytes.Buffer
	if isHTML {
		tpl, err := htmpl.ParseFS(FS, filename)
		if err != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, err)
		}
		if err := tpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("exec %q: %w", filename, err)
		}
		return buf.String(), nil
	}
	tpl, err := texttpl.ParseFS(FS, filename)
	if err != nil {
		return "", fmt.Errorf("parse text %q: %w", filename, err)
	}
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render loads and renders subject, text, and html templates for the given base name.
// Expects: <name>.subject.tmpl, <name>.text.tmpl, <name>.html.tmpl
func Render(name string, data any) (subject string, text string, html string, err error) {
	subject, err = renderFile(name+".subject.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = renderFile(name+".text.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}
