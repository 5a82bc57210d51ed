package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	aead, err := NewAESGCM(key)
	require.NoError(t, err)

	plaintext := []byte("I am feeling anxious about my treatment")
	sealed, err := Encrypt(aead, plaintext)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "anxious")

	opened, err := Decrypt(aead, sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	aead, err := NewAESGCM(bytes.Repeat([]byte{0x01}, 32))
	require.NoError(t, err)

	a, err := Encrypt(aead, []byte("same message"))
	require.NoError(t, err)
	b, err := Encrypt(aead, []byte("same message"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptRejectsTampering(t *testing.T) {
	aead, err := NewAESGCM(bytes.Repeat([]byte{0x01}, 32))
	require.NoError(t, err)

	sealed, err := Encrypt(aead, []byte("original"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xFF

	_, err = Decrypt(aead, sealed)
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestDecryptRejectsShortCiphertext(t *testing.T) {
	aead, err := NewAESGCM(bytes.Repeat([]byte{0x01}, 32))
	require.NoError(t, err)

	_, err = Decrypt(aead, []byte{0x01, 0x02})
	require.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestNewAESGCMRejectsBadKeySize(t *testing.T) {
	_, err := NewAESGCM([]byte("too short"))
	require.ErrorIs(t, err, ErrInvalidKeySize)
}
