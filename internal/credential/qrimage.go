package credential

import qrcode "github.com/skip2/go-qrcode"

// qrImageSize is the square pixel size of rendered badge codes.
const qrImageSize = 256

// RenderPNG renders an encoded payload as a QR code PNG suitable for a
// worker's downloadable badge.
func RenderPNG(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.High, qrImageSize)
}
