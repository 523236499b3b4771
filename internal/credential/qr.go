package credential

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

const dataURLPrefix = "data:image/png;base64,"

// QRRenderer turns payload strings into QR code images.
type QRRenderer struct {
	size  int
	level qr.ErrorCorrectionLevel
}

// NewQRRenderer builds a renderer producing size x size images.
func NewQRRenderer(size int) *QRRenderer {
	if size <= 0 {
		size = 256
	}
	return &QRRenderer{size: size, level: qr.M}
}

// PNG renders payload as a PNG image.
func (r *QRRenderer) PNG(payload string) ([]byte, error) {
	code, err := qr.Encode(payload, r.level, qr.Auto)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, r.size, r.size)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURL renders payload as an inline PNG data URL.
func (r *QRRenderer) DataURL(payload string) (string, error) {
	img, err := r.PNG(payload)
	if err != nil {
		return "", err
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(img), nil
}
