package services

import (
	"bytes"
	"context"
	"fmt"

	"entrega-backend/internal/models"
	"entrega-backend/internal/timeutil"
	"github.com/jung-kurt/gofpdf/v2"
)

// ReportService renders invoice views as PDF documents for sending to
// clients.
type ReportService struct {
	aggregation *AggregationService
}

func NewReportService(aggregation *AggregationService) *ReportService {
	return &ReportService{aggregation: aggregation}
}

// InvoicePDF renders one client's monthly invoice: delivery breakdown,
// product summary and total.
func (s *ReportService) InvoicePDF(ctx context.Context, clientID int, month string) ([]byte, error) {
	details, err := s.aggregation.InvoiceDetails(ctx, clientID, month)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Fatura mensal"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Cliente: %s", details.Client.DisplayName())))
	pdf.Ln(6)
	displayMonth := month
	if len(month) == 7 {
		displayMonth = month[5:7] + "/" + month[0:4]
	}
	pdf.Cell(0, 6, tr(fmt.Sprintf("Referência: %s", displayMonth)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Emitida em: %s", timeutil.Now().Format(timeutil.DisplayLayout))))
	pdf.Ln(12)

	s.renderDeliveries(pdf, tr, details.Deliveries)
	s.renderProductSummary(pdf, tr, details.ProductSummary)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(140, 10, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, 10, formatMoney(details.Total), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ReportService) renderDeliveries(pdf *gofpdf.Fpdf, tr func(string) string, deliveries []models.DeliveryBreakdownEntry) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Entregas")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 7, "Data", "B", 0, "L", false, 0, "")
	pdf.CellFormat(100, 7, "Entregador", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Valor", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, d := range deliveries {
		pdf.CellFormat(40, 7, d.Date, "", 0, "L", false, 0, "")
		pdf.CellFormat(100, 7, tr(d.Deliverer), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, formatMoney(d.Total), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}

func (s *ReportService) renderProductSummary(pdf *gofpdf.Fpdf, tr func(string) string, summary []models.ProductSummaryEntry) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Resumo por produto")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(100, 7, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Quantidade", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Valor", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, p := range summary {
		pdf.CellFormat(100, 7, tr(p.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.3f", p.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, formatMoney(p.Total), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}

func formatMoney(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}
