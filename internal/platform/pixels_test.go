package platform

import (
	"image"
	"image/color"
	"slices"
	"testing"
)

func TestPremultipliedBGRA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	copy(img.Pix, []byte{
		255, 0, 0, 255,
		0, 255, 0, 0,
		200, 100, 50, 128,
	})
	got := PremultipliedBGRA(img)
	want := []byte{
		0, 0, 255, 255,
		0, 0, 0, 0,
		25, 50, 100, 128,
	}
	if !slices.Equal(got, want) {
		t.Fatalf("PremultipliedBGRA = %v, want %v", got, want)
	}
}

func TestToRGBAUnpremultiplies(t *testing.T) {
	src := image.NewNRGBA(image.Rect(2, 2, 3, 3))
	src.Set(2, 2, color.NRGBA{R: 200, G: 100, B: 0, A: 128})
	got := ToRGBA(src)
	if got.Rect != image.Rect(0, 0, 1, 1) {
		t.Fatalf("bounds = %v, want origin-based 1x1", got.Rect)
	}
	if got.Pix[3] != 128 {
		t.Fatalf("alpha = %d, want 128", got.Pix[3])
	}
	if r := int(got.Pix[0]); r < 198 || r > 201 {
		t.Fatalf("red = %d, want about 200", r)
	}
}

func TestToRGBAKeepsPackedImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if ToRGBA(img) != img {
		t.Fatalf("ToRGBA copied an already packed image")
	}
	if ToRGBA(nil) != nil {
		t.Fatalf("ToRGBA(nil) != nil")
	}
}
