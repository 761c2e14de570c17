package compression

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4"
)

// maxDecompressedSize bounds the length prefix accepted by Decompress.
const maxDecompressedSize = 64 << 20

var ErrCorrupt = errors.New("compressed payload is corrupt")

// NoCompressor passes data through unchanged.
type NoCompressor struct{}

func (NoCompressor) Name() string { return "none" }

func (NoCompressor) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (NoCompressor) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

// LZ4Compressor stores an LZ4 block behind a uvarint holding the original length.
type LZ4Compressor struct{}

func (LZ4Compressor) Name() string { return "lz4" }

func (LZ4Compressor) Compress(data []byte) ([]byte, error) {
	out := make([]byte, binary.MaxVarintLen64+lz4.CompressBlockBound(len(data)))
	n := binary.PutUvarint(out, uint64(len(data)))
	if len(data) == 0 {
		return out[:n], nil
	}

	size, err := lz4.CompressBlock(data, out[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	return out[:n+size], nil
}

func (LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	size, n := binary.Uvarint(data)
	if n <= 0 || size > maxDecompressedSize {
		return nil, ErrCorrupt
	}
	if size == 0 {
		return []byte{}, nil
	}

	out := make([]byte, size)
	got, err := lz4.UncompressBlock(data[n:], out)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}
	if uint64(got) != size {
		return nil, ErrCorrupt
	}
	return out, nil
}
