package reports

import (
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/olekukonko/tablewriter"
	"github.com/tealeg/xlsx"
)

// WriteSalesXLSX writes the report as a single sheet workbook.
func WriteSalesXLSX(w io.Writer, r SalesReport) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range r.header() {
		headerRow.AddCell().SetValue(h)
	}
	for _, row := range append(r.Rows, r.Totals) {
		xrow := sheet.AddRow()
		xrow.AddCell().SetValue(row.Day)
		xrow.AddCell().SetValue(row.Orders)
		xrow.AddCell().SetValue(row.ItemsSold)
		for _, d := range row.cells()[3:] {
			xrow.AddCell().SetValue(d)
		}
	}
	return file.Write(w)
}

// WriteSalesPDF writes the report as a landscape table.
func WriteSalesPDF(w io.Writer, r SalesReport) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "GreenNest sales report")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, r.Period.From.Format(dayLayout)+" to "+r.Period.To.AddDate(0, 0, -1).Format(dayLayout))
	pdf.Ln(10)

	widths := []float64{35, 25, 25, 35, 35, 35, 35, 35}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 240, 230)
	for i, h := range r.header() {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range r.Rows {
		for i, cell := range row.cells() {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetFont("Helvetica", "B", 9)
	for i, cell := range r.Totals.cells() {
		pdf.CellFormat(widths[i], 6, cell, "1", 0, "R", false, 0, "")
	}

	return pdf.Output(w)
}

// WriteSalesTable prints the report as a text table for the CLI.
func WriteSalesTable(w io.Writer, r SalesReport) error {
	table := tablewriter.NewWriter(w)
	table.Header(r.header())
	for _, row := range r.Rows {
		if err := table.Append(row.cells()); err != nil {
			return err
		}
	}
	if err := table.Append(r.Totals.cells()); err != nil {
		return err
	}
	return table.Render()
}
