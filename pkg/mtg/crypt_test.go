package mtg

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {
	_, sender, err := ed25519.GenerateKey(rand.Reader)
	require.Nil(t, err)

	receiverPub, receiver, err := ed25519.GenerateKey(rand.Reader)
	require.Nil(t, err)

	body := []byte("vault deposit 100")

	message, err := Encrypt(body, sender, receiverPub)
	require.Nil(t, err)
	assert.NotEqual(t, body, message)

	decrypted, err := Decrypt(message, receiver)
	require.Nil(t, err)
	assert.Equal(t, body, decrypted)

	_, wrong, err := ed25519.GenerateKey(rand.Reader)
	require.Nil(t, err)

	_, err = Decrypt(message, wrong)
	assert.NotNil(t, err)
}

func TestPackUnpack(t *testing.T) {
	pub, key, err := ed25519.GenerateKey(rand.Reader)
	require.Nil(t, err)

	body := []byte("proposal vote")
	packed := Pack(body, Sign(body, key))

	unpacked, sig, err := Unpack(packed)
	require.Nil(t, err)
	assert.Equal(t, body, unpacked)
	assert.True(t, Verify(unpacked, sig, pub))

	unpacked[0] ^= 1
	assert.False(t, Verify(unpacked, sig, pub))
}
