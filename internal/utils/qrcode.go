package utils

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateQRCodePNG renders content as a PNG QR code, used to embed the
// public verification URL in certificate PDFs.
func GenerateQRCodePNG(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
