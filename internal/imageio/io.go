// Package imageio writes rendered images to disk.
//
// The output format is chosen from the file extension: plain PPM, PNG,
// Deflate-compressed TIFF or BMP.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned when the file extension has no encoder.
var ErrUnsupportedFormat = errors.New("imageio: unsupported format")

// Encoder writes an image to w.
type Encoder func(w io.Writer, img image.Image) error

var encoders = map[string]Encoder{
	".ppm":  EncodePPM,
	".png":  encodePNG,
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
	".bmp":  encodeBMP,
}

// EncoderFor returns the encoder registered for the extension of path.
func EncoderFor(path string) (Encoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	enc, ok := encoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return enc, nil
}

// Save writes img to path in the format selected by the path's extension.
func Save(path string, img image.Image) error {
	enc, err := EncoderFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}

	if err := enc(f, img); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func encodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("imageio: encode PNG: %w", err)
	}
	return nil
}

func encodeTIFF(w io.Writer, img image.Image) error {
	if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return fmt.Errorf("imageio: encode TIFF: %w", err)
	}
	return nil
}

func encodeBMP(w io.Writer, img image.Image) error {
	if err := bmp.Encode(w, img); err != nil {
		return fmt.Errorf("imageio: encode BMP: %w", err)
	}
	return nil
}
