package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log"

	"github.com/disintegration/imaging"
)

const (
	// Max dimension accepted by the catalog service without server-side resizing
	maxUploadDim = 1920
	// JPEG quality for re-encoded uploads
	uploadQuality = 85
)

// PrepareUpload normalizes a photo for upload: oversized images are
// downscaled (longest side capped at maxUploadDim, aspect ratio kept) and
// re-encoded to JPEG. Images already within bounds pass through untouched.
// Note: JPEG instead of WebP to avoid a CGO dependency.
func PrepareUpload(imageData []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxUploadDim && height <= maxUploadDim && (format == "jpeg" || format == "jpg") {
		return imageData, nil
	}

	resized := img
	if width > maxUploadDim || height > maxUploadDim {
		var newWidth, newHeight int
		if width > height {
			newWidth = maxUploadDim
			newHeight = int(float64(height) * float64(maxUploadDim) / float64(width))
		} else {
			newHeight = maxUploadDim
			newWidth = int(float64(width) * float64(maxUploadDim) / float64(height))
		}
		log.Printf("🔄 Resizing photo for upload: %dx%d -> %dx%d", width, height, newWidth, newHeight)
		resized = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: uploadQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
