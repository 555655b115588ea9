// Package report renders printable documents through a Gotenberg sidecar.
package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mrawais006/autoworkx/internal/billing"
	"github.com/mrawais006/autoworkx/internal/settings"
)

// ShopInfoSource supplies the shop identity printed on documents.
type ShopInfoSource interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// InvoiceRenderer produces invoice PDFs. It satisfies the billing handler's
// renderer port.
type InvoiceRenderer struct {
	gotenberg *Client
	shop      ShopInfoSource
	printer   *message.Printer
}

// NewInvoiceRenderer constructs an invoice renderer.
func NewInvoiceRenderer(gotenberg *Client, shop ShopInfoSource) *InvoiceRenderer {
	return &InvoiceRenderer{
		gotenberg: gotenberg,
		shop:      shop,
		printer:   message.NewPrinter(language.English),
	}
}

// RenderInvoice produces the PDF bytes for an invoice.
func (r *InvoiceRenderer) RenderInvoice(ctx context.Context, detail *billing.InvoiceWithItems) ([]byte, error) {
	var shop settings.Settings
	if r.shop != nil {
		loaded, err := r.shop.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("report: load shop info: %w", err)
		}
		shop = loaded
	}

	html, err := r.renderHTML(detail, shop)
	if err != nil {
		return nil, fmt.Errorf("report: render invoice html: %w", err)
	}
	if r.gotenberg == nil {
		return nil, fmt.Errorf("report: gotenberg client not configured")
	}
	pdf, err := r.gotenberg.RenderHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("report: convert invoice %s: %w", detail.Number, err)
	}
	return pdf, nil
}

type invoiceLineView struct {
	Name      string
	Qty       string
	UnitPrice string
	Taxable   string
	LineTotal string
}

type invoiceView struct {
	Shop      settings.Settings
	Number    string
	Status    string
	IssueDate string
	DueDate   string
	PaidDate  string
	Method    string
	Items     []invoiceLineView
	Subtotal  string
	TaxRate   string
	TaxTotal  string
	Total     string
	Notes     string
}

func (r *InvoiceRenderer) renderHTML(detail *billing.InvoiceWithItems, shop settings.Settings) (string, error) {
	view := invoiceView{
		Shop:      shop,
		Number:    detail.Number,
		Status:    string(detail.Classification),
		IssueDate: detail.CreatedAt.Format("2 Jan 2006"),
		Subtotal:  r.money(detail.Subtotal),
		TaxRate:   fmt.Sprintf("%g%%", detail.TaxRate),
		TaxTotal:  r.money(detail.TaxTotal),
		Total:     r.money(detail.Total),
		Notes:     detail.Notes,
	}
	if !detail.DueDate.IsZero() {
		view.DueDate = detail.DueDate.Format("2 Jan 2006")
	}
	if detail.PaidDate != nil {
		view.PaidDate = detail.PaidDate.Format("2 Jan 2006")
	}
	if detail.PaymentMethod != nil {
		view.Method = string(*detail.PaymentMethod)
	}
	for _, item := range detail.Items {
		taxable := "No"
		if item.Taxable {
			taxable = "Yes"
		}
		view.Items = append(view.Items, invoiceLineView{
			Name:      item.Name,
			Qty:       fmt.Sprintf("%g", item.Qty),
			UnitPrice: r.money(item.UnitPrice),
			Taxable:   taxable,
			LineTotal: r.money(item.LineTotal),
		})
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// money formats an amount with thousands separators and two decimals.
func (r *InvoiceRenderer) money(v float64) string {
	return r.printer.Sprintf("$%.2f", v)
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1a1a1a; margin: 40px; }
  h1 { font-size: 22px; margin-bottom: 0; }
  .shop { color: #555; font-size: 12px; margin-bottom: 24px; }
  .meta { margin-bottom: 24px; font-size: 13px; }
  table { width: 100%; border-collapse: collapse; font-size: 13px; }
  th { text-align: left; border-bottom: 2px solid #1a1a1a; padding: 6px 4px; }
  td { border-bottom: 1px solid #ddd; padding: 6px 4px; }
  .num { text-align: right; }
  .totals { margin-top: 16px; width: 280px; margin-left: auto; font-size: 13px; }
  .totals td { border: none; padding: 3px 4px; }
  .totals .grand { font-weight: bold; border-top: 2px solid #1a1a1a; }
  .notes { margin-top: 32px; font-size: 12px; color: #555; }
</style>
</head>
<body>
  <h1>{{.Shop.ShopName}}</h1>
  <div class="shop">
    {{if .Shop.ShopAddress}}{{.Shop.ShopAddress}}<br>{{end}}
    {{if .Shop.ShopPhone}}{{.Shop.ShopPhone}}{{end}}
    {{if .Shop.ShopEmail}} &middot; {{.Shop.ShopEmail}}{{end}}
    {{if .Shop.ABN}}<br>ABN {{.Shop.ABN}}{{end}}
  </div>
  <div class="meta">
    <strong>Invoice {{.Number}}</strong> ({{.Status}})<br>
    Issued: {{.IssueDate}}{{if .DueDate}} &middot; Due: {{.DueDate}}{{end}}
    {{if .PaidDate}}<br>Paid: {{.PaidDate}}{{if .Method}} via {{.Method}}{{end}}{{end}}
  </div>
  <table>
    <tr><th>Item</th><th class="num">Qty</th><th class="num">Unit</th><th class="num">Tax</th><th class="num">Amount</th></tr>
    {{range .Items}}
    <tr><td>{{.Name}}</td><td class="num">{{.Qty}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Taxable}}</td><td class="num">{{.LineTotal}}</td></tr>
    {{end}}
  </table>
  <table class="totals">
    <tr><td>Subtotal</td><td class="num">{{.Subtotal}}</td></tr>
    <tr><td>Tax ({{.TaxRate}})</td><td class="num">{{.TaxTotal}}</td></tr>
    <tr class="grand"><td>Total</td><td class="num">{{.Total}}</td></tr>
  </table>
  {{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
</body>
</html>`))
