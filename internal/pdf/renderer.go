package pdf

import (
	"bytes"
	"fmt"
	"net/http"

	"boohk/pkg/types"

	"github.com/go-pdf/fpdf"
)

// Renderer turns assembled inputs into PDF bytes. It is a pure function
// of its inputs; layout is deliberately plain.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(inputs *RenderInputs) ([]byte, error) {

	if inputs == nil || inputs.Quotation == nil {
		return nil, &types.GenerationError{Stage: "render", Err: fmt.Errorf("no quotation in render inputs")}
	}

	quotation := inputs.Quotation

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(quotation.Title, true)
	doc.AddPage()

	if logoType, ok := imageType(inputs.Logo); ok {
		opts := fpdf.ImageOptions{ImageType: logoType, ReadDpi: true}
		doc.RegisterImageOptionsReader("logo", opts, bytes.NewReader(inputs.Logo))
		doc.ImageOptions("logo", 160, 10, 35, 0, false, opts, 0, "")
	}

	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(0, 10, "Quotation")
	doc.Ln(10)

	doc.SetFont("Helvetica", "", 11)
	if inputs.Company != nil {
		doc.Cell(0, 6, inputs.Company.Name)
		doc.Ln(6)
	}
	doc.Cell(0, 6, quotation.Title)
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Issued %s", quotation.IssueDate.Format("2 Jan 2006")))
	doc.Ln(6)
	if quotation.ExpiryDate != nil {
		doc.Cell(0, 6, fmt.Sprintf("Valid until %s", quotation.ExpiryDate.Format("2 Jan 2006")))
		doc.Ln(6)
	}
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(100, 8, "Description", "1", 0, "L", false, 0, "")
	doc.CellFormat(20, 8, "Qty", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 8, "Unit", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 8, "Total", "1", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, item := range quotation.LineItems {
		doc.CellFormat(100, 8, item.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(20, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 8, formatCents(item.UnitCents), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 8, formatCents(item.TotalCents), "1", 1, "R", false, 0, "")
	}

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(155, 8, "Total", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 8, formatCents(quotation.TotalCents()), "1", 1, "R", false, 0, "")
	doc.Ln(14)

	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, "Authorized signature:")
	doc.Ln(8)
	if sigType, ok := imageType(inputs.Signature); ok {
		opts := fpdf.ImageOptions{ImageType: sigType, ReadDpi: true}
		doc.RegisterImageOptionsReader("signature", opts, bytes.NewReader(inputs.Signature))
		doc.ImageOptions("signature", doc.GetX(), doc.GetY(), 50, 0, false, opts, 0, "")
		doc.Ln(26)
	} else {
		doc.Ln(18)
	}
	doc.Cell(0, 6, "____________________________")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, &types.GenerationError{Stage: "render", Err: err}
	}

	return buf.Bytes(), nil
}

// imageType sniffs the embedded image format. fpdf only takes PNG, JPEG
// and GIF; anything else is skipped rather than failing the render.
func imageType(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}

	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG", true
	case "image/jpeg":
		return "JPG", true
	case "image/gif":
		return "GIF", true
	default:
		return "", false
	}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
