package principal

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/carbond/internal/crypto"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pub, err := hex.DecodeString("0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020")
	require.NoError(t, err)

	p := FromPublicKey(pub)
	require.NoError(t, p.Validate())

	id, err := Decode(p)
	require.NoError(t, err)
	assert.Equal(t, crypto.CalcPrincipalID(pub), id)
	assert.Equal(t, id, p.ID())
	assert.Equal(t, p, Encode(id))
}

func TestDecodeErrors(t *testing.T) {
	valid := Encode(ID{1, 2, 3})

	tests := []struct {
		name  string
		input Principal
		want  error
	}{
		{"empty", "", ErrEmpty},
		{"not base58", "0OIl", ErrBadEncoding},
		{"too short", "3yZe7d", ErrBadLength},
		{"checksum", Principal(string(valid[:len(valid)-1]) + flip(valid[len(valid)-1])), ErrBadChecksum},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.input)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDistinctIDsEncodeDistinctly(t *testing.T) {
	a := Encode(ID{1})
	b := Encode(ID{2})
	assert.NotEqual(t, a, b)
	assert.True(t, crypto.IsZeroPrincipalID(Principal("bogus").ID()))
}

func flip(c byte) string {
	if c == '2' {
		return "3"
	}
	return "2"
}
