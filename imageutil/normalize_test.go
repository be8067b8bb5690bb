package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

// createTestImage creates a test JPEG image with specified dimensions
func createTestImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x + y) % 256),
				G: uint8((x * 2) % 256),
				B: uint8((y * 2) % 256),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeLargeImage(t *testing.T) {
	original := createTestImage(t, 2000, 1500)

	normalized, err := Normalize(original, 1280)
	if err != nil {
		t.Fatalf("Failed to normalize image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(normalized))
	if err != nil {
		t.Fatalf("Failed to decode normalized image: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > 1280 || bounds.Dy() > 1280 {
		t.Errorf("Normalized dimensions %dx%d exceed the maximum 1280",
			bounds.Dx(), bounds.Dy())
	}

	// Aspect ratio preserved: 2000x1500 -> 1280x960.
	if bounds.Dx() != 1280 || bounds.Dy() != 960 {
		t.Errorf("Normalized dimensions = %dx%d, want 1280x960", bounds.Dx(), bounds.Dy())
	}
}

func TestNormalizeSmallImagePassthrough(t *testing.T) {
	original := createTestImage(t, 640, 480)

	normalized, err := Normalize(original, 1280)
	if err != nil {
		t.Fatalf("Failed to normalize image: %v", err)
	}

	if !bytes.Equal(normalized, original) {
		t.Error("Small upright image should be returned unchanged")
	}
}

func TestNormalizeGarbage(t *testing.T) {
	if _, err := Normalize([]byte("not an image"), 1280); err == nil {
		t.Error("Expected error for undecodable input")
	}
}

func TestOrientationDefault(t *testing.T) {
	// Freshly encoded JPEGs carry no EXIF, so orientation defaults to 1.
	original := createTestImage(t, 32, 32)
	if got := Orientation(original); got != 1 {
		t.Errorf("Orientation = %d, want 1", got)
	}
}
