package utils

import (
	qrcode "github.com/skip2/go-qrcode"
)

const (
	MinQRSize     = 128
	MaxQRSize     = 1024
	DefaultQRSize = 256
)

// QRPNG returns PNG bytes of a QR code for text. size is clamped to
// [MinQRSize, MaxQRSize]; 0 means DefaultQRSize.
func QRPNG(text string, size int) ([]byte, error) {
	switch {
	case size == 0:
		size = DefaultQRSize
	case size < MinQRSize:
		size = MinQRSize
	case size > MaxQRSize:
		size = MaxQRSize
	}
	return qrcode.Encode(text, qrcode.Medium, size)
}
