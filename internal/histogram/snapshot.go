package histogram

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Snapshot format:
//
//	[0:4]  magic "BHST"
//	[4]    version
//	[5]    compression
//	[6:8]  reserved, zero
//	[8:12] side length, little-endian uint32
//	[12:]  Size*Size little-endian uint64 counts, compressed as a single stream
const (
	snapshotMagic   = "BHST"
	snapshotVersion = 1
	headerSize      = 12

	// MaxSnapshotSize bounds the side length accepted by Decode.
	MaxSnapshotSize = 1 << 15

	chunkCells = 8192
)

// ErrCorruptSnapshot is returned when a snapshot cannot be decoded.
var ErrCorruptSnapshot = errors.New("histogram: corrupt snapshot")

// Compression selects how snapshot payloads are compressed.
type Compression uint8

const (
	// CompressionNone stores counts uncompressed.
	CompressionNone Compression = 0
	// CompressionZstd compresses with zstd. Best ratio on sparse histograms.
	CompressionZstd Compression = 1
	// CompressionLZ4 compresses with LZ4 frames. Fastest to write.
	CompressionLZ4 Compression = 2
)

// String returns the flag name of c.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "zstd" or "lz4".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("histogram: unknown compression %q", s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder(w io.Writer) (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		enc := v.(*zstd.Encoder)
		enc.Reset(w)
		return enc, nil
	}
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder(r io.Reader) (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		dec := v.(*zstd.Decoder)
		if err := dec.Reset(r); err != nil {
			return nil, err
		}
		return dec, nil
	}
	return zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
}

// Encode writes h to w as a snapshot. Nothing is written when c is not a
// known compression.
func (h *Histogram) Encode(w io.Writer, c Compression) error {
	switch c {
	case CompressionNone, CompressionZstd, CompressionLZ4:
	default:
		return fmt.Errorf("histogram: unsupported %s", c)
	}

	var header [headerSize]byte
	copy(header[0:4], snapshotMagic)
	header[4] = snapshotVersion
	header[5] = byte(c)
	binary.LittleEndian.PutUint32(header[8:], uint32(h.size)) //nolint:gosec // G115: size is validated by callers
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("histogram: write header: %w", err)
	}

	switch c {
	case CompressionNone:
		return h.writeCounts(w)

	case CompressionZstd:
		enc, err := getZstdEncoder(w)
		if err != nil {
			return fmt.Errorf("histogram: zstd: %w", err)
		}
		if err := h.writeCounts(enc); err != nil {
			_ = enc.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("histogram: zstd: %w", err)
		}
		zstdEncoderPool.Put(enc)
		return nil

	default: // CompressionLZ4
		zw := lz4.NewWriter(w)
		if err := h.writeCounts(zw); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("histogram: lz4: %w", err)
		}
		return nil
	}
}

func (h *Histogram) writeCounts(w io.Writer) error {
	buf := make([]byte, 0, chunkCells*8)
	for start := 0; start < len(h.counts); start += chunkCells {
		end := min(start+chunkCells, len(h.counts))
		buf = buf[:0]
		for _, c := range h.counts[start:end] {
			buf = binary.LittleEndian.AppendUint64(buf, c)
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("histogram: write counts: %w", err)
		}
	}
	return nil
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (*Histogram, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorruptSnapshot, err)
	}
	if string(header[0:4]) != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorruptSnapshot, header[0:4])
	}
	if header[4] != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, header[4])
	}
	size := binary.LittleEndian.Uint32(header[8:])
	if size > MaxSnapshotSize {
		return nil, fmt.Errorf("%w: side length %d exceeds %d", ErrCorruptSnapshot, size, MaxSnapshotSize)
	}

	n := int(size) * int(size)

	var (
		counts []uint64
		err    error
	)
	switch c := Compression(header[5]); c {
	case CompressionNone:
		counts, err = readCounts(r, n)

	case CompressionZstd:
		dec, derr := getZstdDecoder(r)
		if derr != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorruptSnapshot, derr)
		}
		counts, err = readCounts(dec, n)
		zstdDecoderPool.Put(dec)

	case CompressionLZ4:
		counts, err = readCounts(lz4.NewReader(r), n)

	default:
		return nil, fmt.Errorf("%w: unsupported %s", ErrCorruptSnapshot, c)
	}
	if err != nil {
		return nil, err
	}

	return &Histogram{size: int(size), counts: counts}, nil
}

// readCounts reads n counts. The result grows one chunk at a time, so a
// header claiming a large side costs memory only for data actually present.
func readCounts(r io.Reader, n int) ([]uint64, error) {
	counts := make([]uint64, 0, min(n, chunkCells))
	buf := make([]byte, chunkCells*8)
	for len(counts) < n {
		chunk := buf[:min(n-len(counts), chunkCells)*8]
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, fmt.Errorf("%w: counts: %w", ErrCorruptSnapshot, err)
		}
		for i := 0; i < len(chunk); i += 8 {
			counts = append(counts, binary.LittleEndian.Uint64(chunk[i:]))
		}
	}
	return counts, nil
}

// SaveFile writes h as a snapshot to path.
func (h *Histogram) SaveFile(path string, c Compression) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("histogram: create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("histogram: close file: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := h.Encode(bw, c); err != nil {
		return err
	}
	return bw.Flush()
}

// LoadFile reads a snapshot from path.
func LoadFile(path string) (*Histogram, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("histogram: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(bufio.NewReader(f))
}
