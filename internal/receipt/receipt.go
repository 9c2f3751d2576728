package receipt

import (
	"bytes"
	"html/template"
	"time"

	"github.com/warungpos/pos-service/internal/apperr"
	"github.com/warungpos/pos-service/internal/model"
)

// Data carries the already-resolved values the renderer needs. Totals come
// from the stored transaction, never recomputed from current catalog prices.
type Data struct {
	Date         string
	CashierName  string
	CustomerName string
	Note         string
	Items        []Item
	Total        float64
	Paid         float64
	Change       float64
}

type Item struct {
	Name      string
	Quantity  int
	LineTotal float64
}

const defaultCashierName = "Admin"

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: monospace; max-width: 380px; margin: auto;">
  <h1>Receipt</h1>
  <p><strong>Date:</strong> {{.Date}}</p>
  <p><strong>Cashier:</strong> {{.CashierName}}</p>
  <p><strong>Customer:</strong> {{.CustomerName}}</p>
  {{if .Note}}<p><strong>Note:</strong> {{.Note}}</p>{{end}}
  <hr />
  <h2>Items:</h2>
  <ul>
    {{range .Items}}<li>{{.Name}} &times; {{.Quantity}} - {{printf "%.2f" .LineTotal}}</li>
    {{end}}
  </ul>
  <hr />
  <h2>Total: {{printf "%.2f" .Total}}</h2>
  <p>Paid: {{printf "%.2f" .Paid}}</p>
  <p>Change: {{printf "%.2f" .Change}}</p>
  <p>Thank you for your purchase!</p>
</body>
</html>
`))

// Render produces the HTML receipt for a resolved transaction. paid must
// cover the stored total.
func Render(t *model.Transaction, paid float64) ([]byte, error) {
	if paid < t.TotalPrice {
		return nil, apperr.Validation("amount paid is less than the total")
	}

	data := Data{
		Date:         t.CreatedAt.Format(time.RFC1123),
		CashierName:  defaultCashierName,
		CustomerName: t.CustomerName,
		Total:        t.TotalPrice,
		Paid:         paid,
		Change:       paid - t.TotalPrice,
	}
	if t.Note != nil {
		data.Note = *t.Note
	}
	for _, item := range t.Items {
		data.Items = append(data.Items, Item{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			LineTotal: item.TotalPrice,
		})
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
