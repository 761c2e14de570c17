package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/carbond/internal/core/principal"
)

func TestIssuanceValidatorSet(t *testing.T) {
	iss := &Issuance{Issuer: "issuer"}

	assert.True(t, iss.AddValidator("v2"))
	assert.True(t, iss.AddValidator("v1"))
	assert.True(t, iss.AddValidator("v3"))
	assert.False(t, iss.AddValidator("v2"))

	assert.Equal(t, []principal.Principal{"v1", "v2", "v3"}, iss.Validators)
	assert.Equal(t, uint32(3), iss.Validations)
	assert.True(t, iss.HasValidator("v3"))
	assert.False(t, iss.HasValidator("v4"))

	iss.ResetValidations()
	assert.Empty(t, iss.Validators)
	assert.Zero(t, iss.Validations)
}

func TestMarshalIsCanonical(t *testing.T) {
	a := &Issuance{Issuer: "x", Amount: 1000, ProjectLabel: "Solar Project", Price: 2000}
	b := &Issuance{Price: 2000, ProjectLabel: "Solar Project", Amount: 1000, Issuer: "x"}

	da, err := Marshal(a)
	require.NoError(t, err)
	db, err := Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)

	var out Issuance
	require.NoError(t, Unmarshal(da, &out))
	assert.Equal(t, *a, out)
}

func TestUnmarshalEmpty(t *testing.T) {
	var root AccountRoot
	require.Error(t, Unmarshal(nil, &root))
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "Issuance", TypeIssuance.String())
	assert.Equal(t, "Unknown(0x0001)", Type(1).String())
}
