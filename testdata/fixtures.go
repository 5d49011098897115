// Package testdata provides encoded image payloads for tests.
package testdata

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

// gradient draws a w x h image whose red channel ramps left to right and whose
// blue channel ramps top to bottom, so channel order mistakes are visible.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(255 * x / max(w-1, 1)),
				G: 64,
				B: uint8(255 * y / max(h-1, 1)),
				A: 255,
			})
		}
	}
	return img
}

// SolidPNG returns PNG bytes of a w x h image filled with c.
func SolidPNG(w, h int, c color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PNG returns PNG bytes of a w x h gradient.
func PNG(w, h int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, gradient(w, h)); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// JPEG returns JPEG bytes of a w x h gradient.
func JPEG(w, h int) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, gradient(w, h), &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PNGPayload returns a base64 encoded PNG gradient.
func PNGPayload(w, h int) string {
	return base64.StdEncoding.EncodeToString(PNG(w, h))
}

// JPEGPayload returns a base64 encoded JPEG gradient.
func JPEGPayload(w, h int) string {
	return base64.StdEncoding.EncodeToString(JPEG(w, h))
}

// DataURL wraps a base64 payload the way browser canvas captures do.
func DataURL(mime, payload string) string {
	return "data:" + mime + ";base64," + payload
}

// NotAnImagePayload is valid base64 of bytes that no image codec accepts.
var NotAnImagePayload = base64.StdEncoding.EncodeToString([]byte("definitely not an image"))

// InvalidBase64Payload is not valid base64.
const InvalidBase64Payload = "this is not base64!!"
