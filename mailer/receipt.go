package mailer

import (
	"bytes"
	"fmt"
	"time"

	"sombot-backend/analytics"
	"sombot-backend/model"

	"github.com/jung-kurt/gofpdf"
)

// ReceiptPDF renders the payment receipt. price is in cents.
func ReceiptPDF(buyerName string, ev *model.Event, price int64) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Sombot - Payment Receipt")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 12)
	rows := [][2]string{
		{"Buyer", buyerName},
		{"Event", eventName(ev)},
		{"Amount", fmt.Sprintf("$%s", analytics.CentsToDecimal(price).StringFixed(2))},
		{"Issued", time.Now().UTC().Format(time.RFC1123)},
	}
	if ev != nil && ev.StartTime != nil {
		rows = append(rows, [2]string{"Event date", ev.StartTime.Format(time.RFC1123)})
	}

	for _, row := range rows {
		pdf.CellFormat(40, 8, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receiptPDF: error rendering pdf: %w", err)
	}

	return buf.Bytes(), nil
}
