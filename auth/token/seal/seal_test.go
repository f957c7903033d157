package seal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendor-auth/auth/auth"
)

func TestSealer_Roundtrip(t *testing.T) {
	publicKey, privateKey, err := GenerateKeypair()
	require.NoError(t, err)

	const payload = "header.payload.signature"

	ciphertext, err := Sealer{}.Seal([]byte(payload), publicKey)
	require.NoError(t, err)

	assert.NotContains(t, ciphertext, payload)

	plaintext, err := Open(ciphertext, privateKey)
	require.NoError(t, err)

	assert.Equal(t, []byte(payload), plaintext)
}

func TestSealer_InvalidPublicKey(t *testing.T) {
	testCases := []struct {
		name      string
		publicKey string
	}{
		{"Missing", ""},
		{"Malformed", "not a key"},
		{"Truncated", "age1qqqq"},
	}

	for _, testCase := range testCases {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			_, err := Sealer{}.Seal([]byte("payload"), testCase.publicKey)
			require.Error(t, err)

			assert.ErrorIs(t, err, auth.ErrSealingFailed)
		})
	}
}

func TestOpen_WrongPrivateKey(t *testing.T) {
	publicKey, _, err := GenerateKeypair()
	require.NoError(t, err)

	_, otherPrivateKey, err := GenerateKeypair()
	require.NoError(t, err)

	ciphertext, err := Sealer{}.Seal([]byte("payload"), publicKey)
	require.NoError(t, err)

	_, err = Open(ciphertext, otherPrivateKey)
	assert.Error(t, err)
}
