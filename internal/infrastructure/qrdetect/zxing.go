// Package qrdetect adapts the gozxing QR reader to the capture.Detector
// contract: given a raster frame it either returns the decoded string or
// reports not found.
package qrdetect

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ZXingDetector decodes QR codes from still frames. The scan loop calls it
// from a single goroutine.
type ZXingDetector struct {
	reader gozxing.Reader
}

func NewZXingDetector() *ZXingDetector {
	return &ZXingDetector{reader: qrcode.NewQRCodeReader()}
}

// Detect runs QR detection against one frame. Any reader error, including
// plain not-found, is reported as absence; a frame that fails detection is
// simply not this tick's frame.
func (d *ZXingDetector) Detect(img image.Image) (string, bool) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false
	}

	result, err := d.reader.Decode(bmp, nil)
	if err != nil || result == nil {
		return "", false
	}
	return result.GetText(), true
}
