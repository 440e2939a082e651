// Package imaging shrinks oversized product images before they are uploaded.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
)

// JPEGQuality is the compression quality for re-encoded JPEGs.
const JPEGQuality = 85

// Result is the image to upload.
type Result struct {
	Data        []byte
	ContentType string
	Resized     bool
}

// Normalizer downscales JPEG and PNG images whose width or height exceeds MaxDimension.
// A zero MaxDimension disables resizing.
type Normalizer struct {
	MaxDimension int
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(maxDimension int) *Normalizer {
	return &Normalizer{MaxDimension: maxDimension}
}

// Normalize returns data unchanged unless it sniffs as JPEG or PNG and is
// larger than MaxDimension, in which case it is scaled down and re-encoded
// in the same format.
func (n *Normalizer) Normalize(data []byte, contentType string) (*Result, error) {
	unchanged := &Result{Data: data, ContentType: contentType}
	if n == nil || n.MaxDimension <= 0 {
		return unchanged, nil
	}

	// Trust the bytes, not the client header.
	detected := http.DetectContentType(data)
	if detected != "image/jpeg" && detected != "image/png" {
		return unchanged, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading image header: %w", err)
	}
	if cfg.Width <= n.MaxDimension && cfg.Height <= n.MaxDimension {
		return unchanged, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = downscale(img, n.MaxDimension)

	var buf bytes.Buffer
	switch detected {
	case "image/png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", detected, err)
	}

	return &Result{Data: buf.Bytes(), ContentType: detected, Resized: true}, nil
}

// downscale resizes img so neither dimension exceeds maxDim, keeping the aspect ratio.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
