// Package reports renders invoices and sales reports as PDF, Excel and text.
package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/amarsreevishnu/greennestPlants/models"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// rupees formats money for PDF output. The core fonts have no rupee sign.
func rupees(d decimal.Decimal) string {
	return "Rs. " + d.StringFixed(2)
}

// WriteInvoice renders a one page A4 invoice for order. Items and Coupon
// should be preloaded.
func WriteInvoice(w io.Writer, order models.Order) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+order.DisplayID(), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "GreenNest")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Tax Invoice")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, "Order: "+order.DisplayID())
	pdf.Ln(5)
	pdf.Cell(0, 5, "Date: "+order.CreatedAt.Format("02 Jan 2006"))
	pdf.Ln(5)
	pdf.Cell(0, 5, "Payment: "+strings.ToUpper(string(order.PaymentMethod))+"    Status: "+string(order.Status))
	pdf.Ln(8)

	a := order.ShippingAddress
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 5, "Ship to")
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{a.FullName, a.Line1, a.Line2, strings.Trim(a.City+", "+a.State+" "+a.PostalCode, ", "), a.Country, a.Phone} {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.Cell(0, 5, line)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	widths := []float64{70, 30, 15, 25, 25, 25}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 240, 230)
	for i, h := range []string{"Product", "Variant", "Qty", "Price", "Total", "Status"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range order.Items {
		pdf.CellFormat(widths[0], 6, it.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, it.VariantType, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprint(it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, it.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, it.TotalPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, string(it.Status), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	totals := [][2]string{
		{"Subtotal", rupees(order.TotalAmount)},
		{"Discount", "- " + rupees(order.Discount)},
		{"Shipping", rupees(order.ShippingCharge)},
		{"Tax", rupees(order.Tax)},
		{"Total", rupees(order.FinalAmount)},
	}
	if order.Coupon != nil {
		totals[1][0] = "Discount (" + order.Coupon.Code + ")"
	}
	if order.RefundedAmount.IsPositive() {
		totals = append(totals, [2]string{"Refunded", rupees(order.RefundedAmount)})
	}
	for i, t := range totals {
		style := ""
		if t[0] == "Total" {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(140, 6, t[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, t[1], "", 0, "R", false, 0, "")
		if i < len(totals)-1 {
			pdf.Ln(-1)
		}
	}

	return pdf.Output(w)
}
