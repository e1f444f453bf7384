package mtg

import (
	"crypto/ed25519"
	"errors"
)

// Sign signs the memo body with the group sign key.
func Sign(body []byte, key ed25519.PrivateKey) []byte {
	return ed25519.Sign(key, body)
}

// Verify reports whether sig is a valid signature of body by key.
func Verify(body, sig []byte, key ed25519.PublicKey) bool {
	return len(sig) == ed25519.SignatureSize && ed25519.Verify(key, body, sig)
}

// Pack appends the signature to the memo body.
func Pack(body, sig []byte) []byte {
	return append(body, sig...)
}

// Unpack splits a packed memo into body and signature.
func Unpack(message []byte) (body, sig []byte, err error) {
	if len(message) <= ed25519.SignatureSize {
		return nil, nil, errors.New("mtg: message too short to unpack")
	}

	n := len(message) - ed25519.SignatureSize
	return message[:n], message[n:], nil
}
