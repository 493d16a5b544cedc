package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{G: 128, A: 255})
	img.SetRGBA(2, 0, color.RGBA{B: 7, A: 255})
	img.SetRGBA(0, 1, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	img.SetRGBA(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetRGBA(2, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func TestEncodePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePPM(&buf, testImage()); err != nil {
		t.Fatalf("EncodePPM() error = %v", err)
	}

	want := "P3\n3 2\n255\n" +
		"255 0 0 0 128 0 0 0 7\n" +
		"1 2 3 10 20 30 255 255 255\n"
	if got := buf.String(); got != want {
		t.Errorf("EncodePPM() =\n%q\nwant\n%q", got, want)
	}
}

func TestEncodePPM_NonRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(1, 0, color.Gray{Y: 200})

	var buf bytes.Buffer
	if err := EncodePPM(&buf, gray); err != nil {
		t.Fatalf("EncodePPM() error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if lines[3] != "0 0 0 200 200 200" {
		t.Errorf("row = %q, want %q", lines[3], "0 0 0 200 200 200")
	}
}

func TestEncodePPM_OffsetBounds(t *testing.T) {
	img := testImage().SubImage(image.Rect(1, 1, 3, 2))

	var buf bytes.Buffer
	if err := EncodePPM(&buf, img); err != nil {
		t.Fatalf("EncodePPM() error = %v", err)
	}
	want := "P3\n2 1\n255\n10 20 30 255 255 255\n"
	if got := buf.String(); got != want {
		t.Errorf("EncodePPM() = %q, want %q", got, want)
	}
}

func TestEncoderFor(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"out.ppm", false},
		{"OUT.PNG", false},
		{"a/b/c.tif", false},
		{"c.tiff", false},
		{"c.bmp", false},
		{"c.jpg", true},
		{"noext", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := EncoderFor(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("EncoderFor(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Errorf("EncoderFor(%q) error = %v", tt.path, err)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	src := testImage()
	dir := t.TempDir()

	decoders := map[string]func(f *os.File) (image.Image, error){
		"out.png":  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		"out.tiff": func(f *os.File) (image.Image, error) { return tiff.Decode(f) },
		"out.bmp":  func(f *os.File) (image.Image, error) { return bmp.Decode(f) },
	}

	for name, decode := range decoders {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(path, src); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer func() { _ = f.Close() }()

			got, err := decode(f)
			if err != nil {
				t.Fatalf("decode error = %v", err)
			}
			if got.Bounds() != src.Bounds() {
				t.Fatalf("bounds = %v, want %v", got.Bounds(), src.Bounds())
			}
			for y := 0; y < 2; y++ {
				for x := 0; x < 3; x++ {
					r1, g1, b1, _ := got.At(x, y).RGBA()
					r2, g2, b2, _ := src.At(x, y).RGBA()
					if r1>>8 != r2>>8 || g1>>8 != g2>>8 || b1>>8 != b2>>8 {
						t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got.At(x, y), src.At(x, y))
					}
				}
			}
		})
	}
}

func TestSave_PPM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ppm")
	if err := Save(path, testImage()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("P3\n3 2\n255\n")) {
		t.Errorf("header = %q", data[:12])
	}
}

func TestSave_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	err := Save(path, testImage())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Save() error = %v, want ErrUnsupportedFormat", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("Save() created a file for an unsupported format")
	}
}

func BenchmarkEncodePPM(b *testing.B) {
	img := image.NewRGBA(image.Rect(0, 0, 512, 512))
	var buf bytes.Buffer
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		_ = EncodePPM(&buf, img)
	}
}
