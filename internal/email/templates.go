package email

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderItem represents an item in an order for email purposes
type OrderItem struct {
	ProductID int64
	Name      string
	Quantity  int
	Price     decimal.Decimal
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type OrderConfirmation struct {
	Name    string
	OrderID int64
	Items   []OrderItem
	Total   decimal.Decimal
}

type PaymentReceipt struct {
	Name      string
	OrderID   int64
	SessionID string
}

var funcs = template.FuncMap{"money": formatMoney}

const layoutHead = `<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">`

const layoutFoot = `
		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This is an automated message from Finstinct. Reply to support if anything looks wrong.
		</p>
	</div>
</body>
</html>`

var orderConfirmationTmpl = template.Must(template.New("order").Funcs(funcs).Parse(layoutHead + `
	<div style="background: #111; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Thanks for your order</h1>
	</div>
	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Hi {{if .Name}}{{.Name}}{{else}}there{{end}}, we have received your order.</p>
		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">#{{.OrderID}}</p>
		</div>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background: #f8f9fa;">
					<th style="padding: 12px; text-align: left;">Product</th>
					<th style="padding: 12px; text-align: center;">Qty</th>
					<th style="padding: 12px; text-align: right;">Price</th>
					<th style="padding: 12px; text-align: right;">Subtotal</th>
				</tr>
			</thead>
			<tbody>
			{{- range .Items}}
				<tr>
					<td style="padding: 12px; border-bottom: 1px solid #eee;">{{if .Name}}{{.Name}}{{else}}Product #{{.ProductID}}{{end}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: center;">{{.Quantity}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">{{money .Price}}</td>
					<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right;">{{money .Subtotal}}</td>
				</tr>
			{{- end}}
			</tbody>
		</table>
		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Total</span>
			<span style="font-size: 24px; font-weight: bold; margin-left: 10px;">{{money .Total}}</span>
		</div>` + layoutFoot))

var paymentReceiptTmpl = template.Must(template.New("receipt").Funcs(funcs).Parse(layoutHead + `
	<div style="background: #0a7d32; padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Payment received</h1>
	</div>
	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Hi {{if .Name}}{{.Name}}{{else}}there{{end}}, your payment for order <strong>#{{.OrderID}}</strong> has been confirmed.</p>
		<p style="font-size: 12px; color: #666;">Reference: <span style="font-family: monospace;">{{.SessionID}}</span></p>` + layoutFoot))

// BuildOrderConfirmationBody renders the order confirmation email
func BuildOrderConfirmationBody(data OrderConfirmation) (string, error) {
	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// BuildPaymentReceiptBody renders the payment receipt email
func BuildPaymentReceiptBody(data PaymentReceipt) (string, error) {
	var buf bytes.Buffer
	if err := paymentReceiptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatMoney renders d as US dollars with comma separators
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	str := d.StringFixed(2)
	whole, frac, _ := strings.Cut(str, ".")
	return sign + "$" + groupThousands(whole) + "." + frac
}

// groupThousands inserts comma separators into a digit string
func groupThousands(str string) string {
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	remainder := len(str) % 3
	if remainder > 0 {
		result.WriteString(str[:remainder])
		result.WriteString(",")
	}

	for i := remainder; i < len(str); i += 3 {
		result.WriteString(str[i : i+3])
		if i+3 < len(str) {
			result.WriteString(",")
		}
	}

	return result.String()
}
