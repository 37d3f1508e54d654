package document

import (
	"bytes"
	"fmt"

	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const ContentTypePDF = "application/pdf"

var columns = []struct {
	title string
	width float64
	align string
}{
	{"#", 10, "C"},
	{"Product", 80, "L"},
	{"Qty", 20, "R"},
	{"Unit price", 35, "R"},
	{"Line total", 35, "R"},
}

// PDFGenerator renders orders as single-document A4 PDFs.
type PDFGenerator struct {
	Title string
}

func NewPDFGenerator(title string) *PDFGenerator {
	if title == "" {
		title = "Order"
	}
	return &PDFGenerator{Title: title}
}

func Filename(orderID string) string {
	return fmt.Sprintf("order-%s.pdf", orderID)
}

func (g *PDFGenerator) GenerateOrderDocument(o *model.Order) (*model.Document, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("%s %s", g.Title, o.ID), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(g.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range [][2]string{
		{"Order", o.ID},
		{"Customer", o.CustomerName},
		{"Status", string(o.Status)},
		{"Date", o.Date.Format("2006-01-02 15:04")},
	} {
		pdf.CellFormat(30, 7, tr(line[0]+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(line[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range columns {
		pdf.CellFormat(col.width, 8, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	for i, item := range o.Items {
		cells := []string{
			fmt.Sprint(i + 1),
			tr(item.ProductName),
			fmt.Sprint(item.Quantity),
			money(item.Price),
			money(item.LineTotal()),
		}
		for j, col := range columns {
			pdf.CellFormat(col.width, 7, cells[j], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 11)
	var labelWidth float64
	for _, col := range columns[:len(columns)-1] {
		labelWidth += col.width
	}
	pdf.CellFormat(labelWidth, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(columns[len(columns)-1].width, 8, money(o.Total()), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render order pdf: %w", err)
	}

	return &model.Document{
		Filename:    Filename(o.ID),
		ContentType: ContentTypePDF,
		Content:     buf.Bytes(),
		Size:        int64(buf.Len()),
	}, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
