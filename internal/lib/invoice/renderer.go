package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/NartechSolution/fatsAiBackend/internal/models"
)

// Data — данные одного счета: созданный пользователь, его подписка,
// тарифный план с услугами и реквизиты компании.
type Data struct {
	User          *models.User
	Subscription  *models.Subscription
	Plan          *models.Plan
	Company       CompanyDetails
	TransactionID string
}

// Renderer описывает контракт генератора счета: детерминированные байты PDF
// для одинаковых входных данных.
type Renderer interface {
	Render(data Data) ([]byte, error)
}

// PDFRenderer рисует счет-фактуру с QR-кодом транзакции.
type PDFRenderer struct {
	backendURL string
}

// NewPDFRenderer создает новый экземпляр PDFRenderer.
func NewPDFRenderer(backendURL string) *PDFRenderer {
	return &PDFRenderer{backendURL: backendURL}
}

// Render формирует PDF счета и возвращает его содержимое.
func (r *PDFRenderer) Render(data Data) ([]byte, error) {
	const op = "invoice.Render"

	qrPNG, err := qrcode.Encode(data.TransactionID, qrcode.Medium, 128)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(120, 10, data.Company.Title)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(70, 10, "Invoice", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(120, 6, fmt.Sprintf("CR: %s   TIN: %s", data.Company.CRNumber, data.Company.TINNumber))
	pdf.CellFormat(70, 6, "Transaction: "+data.TransactionID, "", 1, "R", false, 0, "")
	pdf.Cell(120, 6, data.Company.Email+"   "+data.Company.Phone)
	pdf.CellFormat(70, 6, "Date: "+data.Subscription.StartedAt.Format("2006-01-02"), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Billed To", "B", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	billedTo := data.User.CompanyNameEng
	if billedTo == "" {
		billedTo = data.User.Username
	}
	pdf.CellFormat(0, 6, billedTo, "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, data.User.Email, "", 1, "", false, 0, "")
	if data.User.Country != "" || data.User.City != "" {
		pdf.CellFormat(0, 6, data.User.City+" "+data.User.Country, "", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(120, 8, "Description", "1", 0, "", false, 0, "")
	pdf.CellFormat(70, 8, "Amount", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(120, 8, fmt.Sprintf("%s subscription (%s)", data.Plan.Label(), data.Plan.BillingCycle), "1", 0, "", false, 0, "")
	pdf.CellFormat(70, 8, fmt.Sprintf("%.2f", data.Subscription.AmountPaid), "1", 1, "R", false, 0, "")
	for _, svc := range data.Plan.Services {
		name := svc.DisplayName
		if name == "" {
			name = svc.Name
		}
		pdf.CellFormat(120, 7, "  - "+name, "1", 0, "", false, 0, "")
		pdf.CellFormat(70, 7, "included", "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(120, 8, "Total", "1", 0, "", false, 0, "")
	pdf.CellFormat(70, 8, fmt.Sprintf("%.2f", data.Subscription.AmountPaid), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Payment Details", "", 1, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Account No: "+data.Company.AccountNo, "", 1, "", false, 0, "")
	pdf.CellFormat(0, 5, "IBAN: "+data.Company.IbanNo, "", 1, "", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("%s (%s), %s", data.Company.BankName, data.Company.BankSwiftCode, data.Company.BankAddress), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 5, "Due by: "+data.Subscription.StartedAt.Add(30*24*time.Hour).Format("2006-01-02"), "", 1, "", false, 0, "")

	imgName := "qr-" + data.TransactionID
	pdf.RegisterImageOptionsReader(imgName, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, 160, 240, 30, 30, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, data.Company.Website+"  |  "+r.backendURL+"/support", "T", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
