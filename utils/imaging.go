package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif" // register gif
	_ "image/png" // register png

	"golang.org/x/image/draw"
)

const (
	// MaxImageDimension bounds the long side of a photo sent to the
	// vision service.
	MaxImageDimension = 1024
	jpegQuality       = 80
)

// PreprocessedImage is the normalized payload handed to the vision
// service: a JPEG no larger than MaxImageDimension on its long side.
type PreprocessedImage struct {
	Data   []byte
	Width  int
	Height int
}

// PreprocessImage decodes an uploaded photo, scales it down so neither
// dimension exceeds MaxImageDimension (aspect ratio preserved, small
// images are left at their original size) and re-encodes it as JPEG.
// A photo that cannot be decoded fails with ErrImageDecode.
func PreprocessImage(data []byte) (*PreprocessedImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	srcBounds := img.Bounds()
	srcW := srcBounds.Dx()
	srcH := srcBounds.Dy()

	dstW, dstH := srcW, srcH
	if srcW > MaxImageDimension || srcH > MaxImageDimension {
		if srcW > srcH {
			dstW = MaxImageDimension
			dstH = srcH * MaxImageDimension / srcW
		} else {
			dstH = MaxImageDimension
			dstW = srcW * MaxImageDimension / srcH
		}
	}
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	out := img
	if dstW != srcW || dstH != srcH {
		dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, srcBounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &PreprocessedImage{Data: buf.Bytes(), Width: dstW, Height: dstH}, nil
}
