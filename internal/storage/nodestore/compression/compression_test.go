package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"lz4", "none"}, Available())

	_, err := Get("zstd")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty":      {},
		"short":      []byte("carbon"),
		"repetitive": bytes.Repeat([]byte("retired credits "), 2000),
	}

	for _, name := range Available() {
		c, err := Get(name)
		require.NoError(t, err)

		for label, in := range inputs {
			t.Run(name+"/"+label, func(t *testing.T) {
				packed, err := c.Compress(in)
				require.NoError(t, err)
				out, err := c.Decompress(packed)
				require.NoError(t, err)
				assert.Equal(t, len(in), len(out))
				assert.True(t, bytes.Equal(in, out))
			})
		}
	}
}

func TestLZ4ShrinksRepetitiveInput(t *testing.T) {
	in := bytes.Repeat([]byte("a"), 10000)
	packed, err := LZ4Compressor{}.Compress(in)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(in)/10)
}

func TestLZ4RejectsCorruptPrefix(t *testing.T) {
	_, err := LZ4Compressor{}.Decompress(nil)
	assert.ErrorIs(t, err, ErrCorrupt)
}
