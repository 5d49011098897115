// Package capture turns encoded still images into frames for hand detection.
package capture

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"gocv.io/x/gocv"
)

// DecodeError reports a payload that is not valid base64 or not a supported image.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode image: %s: %v", e.Reason, e.Err)
	}
	return "decode image: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// DecodePayload decodes base64 image text. A leading data URL header such as
// "data:image/png;base64," is accepted and dropped.
func DecodePayload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, &DecodeError{Reason: "malformed data url"}
		}
		payload = payload[comma+1:]
	}
	if payload == "" {
		return nil, &DecodeError{Reason: "empty payload"}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &DecodeError{Reason: "invalid base64", Err: err}
	}
	if len(data) == 0 {
		return nil, &DecodeError{Reason: "empty image data"}
	}

	return data, nil
}

// DecodeImage decodes raster image bytes into a 3-channel, 8-bit BGR Mat.
// The caller must close the returned Mat.
func DecodeImage(data []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, &DecodeError{Reason: "unsupported image", Err: err}
	}
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, &DecodeError{Reason: "unsupported image format"}
	}

	return mat, nil
}

// Decode decodes a base64 payload into a BGR Mat. The caller must close the
// returned Mat.
func Decode(payload string) (gocv.Mat, error) {
	data, err := DecodePayload(payload)
	if err != nil {
		return gocv.Mat{}, err
	}
	return DecodeImage(data)
}

// ToRGB converts a BGR Mat to the RGB channel order hand detectors expect.
// The caller must close the returned Mat.
func ToRGB(bgr gocv.Mat) (gocv.Mat, error) {
	if bgr.Empty() {
		return gocv.Mat{}, errors.New("convert to rgb: empty frame")
	}
	if bgr.Channels() != 3 {
		return gocv.Mat{}, fmt.Errorf("convert to rgb: expected 3 channels, got %d", bgr.Channels())
	}

	rgb := gocv.NewMat()
	gocv.CvtColor(bgr, &rgb, gocv.ColorBGRToRGB)
	if rgb.Empty() {
		rgb.Close()
		return gocv.Mat{}, errors.New("convert to rgb: conversion produced no pixels")
	}

	return rgb, nil
}
