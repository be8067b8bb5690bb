package imageutil

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/apex/log"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
)

const jpegQuality = 90

// Orientation reads the EXIF orientation from JPEG data, defaulting to
// 1 (upright) when the tag is absent or unreadable.
func Orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

// Normalize prepares an uploaded photo for inference: rotates it
// upright per its EXIF orientation and downscales it so neither
// dimension exceeds maxDimension. Images already within bounds and
// already upright are returned unchanged.
func Normalize(data []byte, maxDimension int) ([]byte, error) {
	orientation := Orientation(data)

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if orientation == 1 && width <= maxDimension && height <= maxDimension {
		return data, nil
	}

	if orientation != 1 {
		img = reorient(img, orientation)
		bounds = img.Bounds()
		width = bounds.Dx()
		height = bounds.Dy()
	}

	newWidth, newHeight := width, height
	if width > maxDimension || height > maxDimension {
		scale := float64(maxDimension) / float64(width)
		if s := float64(maxDimension) / float64(height); s < scale {
			scale = s
		}
		newWidth = int(float64(width) * scale)
		newHeight = int(float64(height) * scale)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode normalized image: %w", err)
	}

	log.Infof("Image normalized: %d bytes -> %d bytes (orientation: %d, %dx%d -> %dx%d)",
		len(data), buf.Len(), orientation, width, height, newWidth, newHeight)

	return buf.Bytes(), nil
}

// reorient rewrites the pixels so the image reads upright. Only the
// rotation cases produced by phone cameras are handled; mirrored
// orientations fall back to the rotation that makes text readable.
func reorient(img image.Image, orientation int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	switch orientation {
	case 3: // rotated 180
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				dst.Set(width-1-x, height-1-y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return dst
	case 6, 7: // rotated 90 clockwise
		dst := image.NewRGBA(image.Rect(0, 0, height, width))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				dst.Set(height-1-y, x, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return dst
	case 5, 8: // rotated 90 counter-clockwise
		dst := image.NewRGBA(image.Rect(0, 0, height, width))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				dst.Set(y, width-1-x, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return dst
	default:
		return img
	}
}
