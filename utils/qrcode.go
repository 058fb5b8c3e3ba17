package utils

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRCodeSize is the side length in pixels of generated QR images
const QRCodeSize = 512

// GenerateQRCode encodes data (the certificate verification URL) into a
// square black-on-white PNG. Low error correction favors density; the image
// is a freshly generated digital artifact, never a damaged physical scan.
func GenerateQRCode(data string) ([]byte, error) {
	png, err := qrcode.Encode(data, qrcode.Low, QRCodeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
