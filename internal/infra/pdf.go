package infra

// pdf.go — thermal receipt-style PDF generation for recorded sales.
// Output is written to storagePath/receipt_{offline_id}.pdf so the UI can
// reprint a receipt for any sale, synced or not.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/nanayaw-123/Swiftgo-pos-sub000/internal/model"
)

// GenerateReceiptPDF renders a receipt for a recorded sale and returns the
// absolute path of the written file.
func GenerateReceiptPDF(sale *model.Sale, storeName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", sale.OfflineID)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm wide — close to 80mm thermal receipt paper.
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, storeName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Sales Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	ref := sale.OfflineID
	if sale.ServerID != nil {
		ref = *sale.ServerID
	}
	pdf.CellFormat(contentW, 5, "Ref "+ref, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, sale.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range sale.Items {
		name := item.ProductName
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "GHS "+item.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "GHS "+sale.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Paid ("+sale.PaymentMethod+"):", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "GHS "+sale.Total.StringFixed(2), "", 1, "R", false, 0, "")

	if sale.IsCredit && sale.DebtDueDate != nil {
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(contentW, 4, "Credit sale — due "+sale.DebtDueDate.Format("02/01/2006"), "", 1, "L", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for your purchase!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
