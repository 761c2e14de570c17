package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcPrincipalID(t *testing.T) {
	pubKey, err := hex.DecodeString("0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020")
	require.NoError(t, err)

	id := CalcPrincipalID(pubKey)

	expected, err := hex.DecodeString("b5f762798a53d543a014caf8b297cff8f2f937e8")
	require.NoError(t, err)
	assert.Equal(t, expected, id[:])
}

func TestPrincipalIDFromBytes(t *testing.T) {
	t.Run("Valid 20 byte input", func(t *testing.T) {
		input := make([]byte, 20)
		for i := range input {
			input[i] = byte(i)
		}

		result := PrincipalIDFromBytes(input)
		assert.Equal(t, input, result[:])
	})

	t.Run("Wrong length returns zero", func(t *testing.T) {
		result := PrincipalIDFromBytes([]byte{0x01, 0x02, 0x03})
		assert.True(t, IsZeroPrincipalID(result))
	})

	t.Run("Empty input returns zero", func(t *testing.T) {
		assert.True(t, IsZeroPrincipalID(PrincipalIDFromBytes(nil)))
	})
}
