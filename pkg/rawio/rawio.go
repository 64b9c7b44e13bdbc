// Package rawio reads and writes raw RGBA buffers in a small container
// format, optionally zstd-compressed.
//
// Layout: magic "PXFX", version byte, flags byte (bit 0 = zstd), two
// reserved bytes, big-endian uint32 width and height, then the payload of
// width*height*4 bytes.
package rawio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"pixelfx/internal/models"
	"pixelfx/pkg/fxerr"
)

const (
	magic      = "PXFX"
	version    = 1
	headerSize = 16

	flagZstd = 1 << 0
)

// MaxPixels bounds the image size a container header may declare.
const MaxPixels = 1 << 28

// Extension and CompressedExtension are the conventional file suffixes.
const (
	Extension           = ".rgba"
	CompressedExtension = ".rgba.zst"
)

// Write encodes an RGBA buffer with its dimensions to w.
func Write(w io.Writer, pixels []byte, width, height int, compress bool) error {
	if !models.ValidGeometry(len(pixels), height, width) {
		return fxerr.Geometry("rawio write", len(pixels), width, height)
	}

	var header [headerSize]byte
	copy(header[:4], magic)
	header[4] = version
	if compress {
		header[5] = flagZstd
	}
	binary.BigEndian.PutUint32(header[8:12], uint32(width))
	binary.BigEndian.PutUint32(header[12:16], uint32(height))

	if _, err := w.Write(header[:]); err != nil {
		return fxerr.New(fxerr.IoFailure, "rawio write", "", err)
	}

	if !compress {
		if _, err := w.Write(pixels); err != nil {
			return fxerr.New(fxerr.IoFailure, "rawio write", "", err)
		}
		return nil
	}

	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		return fxerr.New(fxerr.CodecFailure, "rawio write", "", err)
	}
	if _, err := enc.Write(pixels); err != nil {
		enc.Close()
		return fxerr.New(fxerr.CodecFailure, "rawio write", "", err)
	}
	if err := enc.Close(); err != nil {
		return fxerr.New(fxerr.CodecFailure, "rawio write", "", err)
	}
	return nil
}

// Read decodes a container from r and returns the buffer and dimensions.
func Read(r io.Reader) ([]byte, int, int, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, 0, 0, fxerr.New(fxerr.CodecFailure, "rawio read", "", fmt.Errorf("reading header: %w", err))
	}
	if string(header[:4]) != magic {
		return nil, 0, 0, fxerr.New(fxerr.CodecFailure, "rawio read", "", errors.New("bad magic"))
	}
	if header[4] != version {
		return nil, 0, 0, fxerr.New(fxerr.CodecFailure, "rawio read", "", fmt.Errorf("unsupported version %d", header[4]))
	}

	width := int(binary.BigEndian.Uint32(header[8:12]))
	height := int(binary.BigEndian.Uint32(header[12:16]))
	size, ok := models.BufferSize(height, width)
	if !ok || size/4 > MaxPixels {
		return nil, 0, 0, fxerr.New(fxerr.CodecFailure, "rawio read", "",
			fmt.Errorf("header declares %dx%d pixels, limit is %d", width, height, MaxPixels))
	}

	payload := r
	if header[5]&flagZstd != 0 {
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
		if err != nil {
			return nil, 0, 0, fxerr.New(fxerr.CodecFailure, "rawio read", "", err)
		}
		defer dec.Close()
		payload = dec
	}

	var buf bytes.Buffer
	// One extra byte detects payloads longer than the header claims.
	n, err := io.Copy(&buf, io.LimitReader(payload, int64(size)+1))
	if err != nil {
		return nil, 0, 0, fxerr.New(fxerr.CodecFailure, "rawio read", "", err)
	}
	if int(n) != size {
		return nil, 0, 0, fxerr.Geometry("rawio read", int(n), width, height)
	}

	return buf.Bytes(), width, height, nil
}

// Compressed reports whether path uses the compressed suffix.
func Compressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".zst")
}

// WriteFile writes a container to path, compressing when the path ends
// in ".zst".
func WriteFile(path string, pixels []byte, width, height int) error {
	file, err := os.Create(path)
	if err != nil {
		return fxerr.New(fxerr.IoFailure, "create", path, err)
	}

	bw := bufio.NewWriter(file)
	if err := Write(bw, pixels, width, height, Compressed(path)); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		os.Remove(path)
		return fxerr.New(fxerr.IoFailure, "write", path, err)
	}
	if err := file.Close(); err != nil {
		return fxerr.New(fxerr.IoFailure, "close", path, err)
	}
	return nil
}

// ReadFile reads a container from path.
func ReadFile(path string) ([]byte, int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fxerr.New(fxerr.IoFailure, "open", path, err)
	}
	defer file.Close()

	return Read(bufio.NewReader(file))
}
