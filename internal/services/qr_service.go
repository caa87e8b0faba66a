package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/xnftlabs/backend/internal/config"
	"github.com/xnftlabs/backend/internal/models"
)

type QRService struct {
	cfg *config.Config
}

func NewQRService(cfg *config.Config) *QRService { return &QRService{cfg: cfg} }

// GenerateAssetQRPDF generates a simple A4 PDF with a QR code for the
// asset's install link, for publishers to print and share.
func (s *QRService) GenerateAssetQRPDF(asset *models.Asset) ([]byte, error) {
	installURL := fmt.Sprintf("%s/app/%s", s.cfg.FrontendURL, asset.ID.String())

	var qrBuf bytes.Buffer
	png, err := qrcode.Encode(installURL, qrcode.Medium, 512)
	if err != nil {
		return nil, err
	}
	qrBuf.Write(png)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, asset.Name)
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 6, fmt.Sprintf("Publisher: %s\nURL: %s", asset.Publisher, installURL), "", "L", false)

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr", opt, bytes.NewReader(qrBuf.Bytes()))

	// Center the QR on the page. A4 is 210mm wide, the QR is 100mm.
	x := (210.0 - 100.0) / 2.0
	y := pdf.GetY() + 10
	pdf.ImageOptions("qr", x, y, 100, 100, false, opt, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
