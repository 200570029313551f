package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, []string{"MODERATOR"})
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, []string{"MODERATOR"}, claims.Roles)
	assert.Equal(t, JWTIssuer, claims.Issuer)
}

func TestValidateTokenRejectsForeignKey(t *testing.T) {
	token, err := GenerateToken(1, nil)
	require.NoError(t, err)

	SetSecret("rotated")
	t.Cleanup(func() { SetSecret("inkwell") })

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractSignature(t *testing.T) {
	sig, err := ExtractSignature("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "c", sig)

	_, err = ExtractSignature("a.b")
	assert.Error(t, err)
	_, err = ExtractSignature("a.b.")
	assert.Error(t, err)
}
