package mtg

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/nacl/box"
)

const nonceSize = 24

// Encrypt seals the memo body so that only the holder of the peer
// private key can read it. The sender public key and nonce travel
// with the sealed box.
func Encrypt(body []byte, key ed25519.PrivateKey, peer ed25519.PublicKey) ([]byte, error) {
	pub, err := publicKeyToCurve25519(peer)
	if err != nil {
		return nil, err
	}

	priv := privateKeyToCurve25519(key)

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}

	sender := key.Public().(ed25519.PublicKey)
	message := append([]byte{}, sender...)
	message = append(message, nonce[:]...)
	return box.Seal(message, body, &nonce, &pub, &priv), nil
}

// Decrypt opens a memo sealed by Encrypt with the matching private key.
func Decrypt(message []byte, key ed25519.PrivateKey) ([]byte, error) {
	if len(message) <= ed25519.PublicKeySize+nonceSize+box.Overhead {
		return nil, errors.New("mtg: message too short to decrypt")
	}

	sender := ed25519.PublicKey(message[:ed25519.PublicKeySize])
	pub, err := publicKeyToCurve25519(sender)
	if err != nil {
		return nil, err
	}

	var nonce [nonceSize]byte
	copy(nonce[:], message[ed25519.PublicKeySize:ed25519.PublicKeySize+nonceSize])

	priv := privateKeyToCurve25519(key)

	body, ok := box.Open(nil, message[ed25519.PublicKeySize+nonceSize:], &nonce, &pub, &priv)
	if !ok {
		return nil, errors.New("mtg: decrypt failed")
	}

	return body, nil
}

func privateKeyToCurve25519(key ed25519.PrivateKey) [32]byte {
	h := sha512.Sum512(key.Seed())
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64

	var out [32]byte
	copy(out[:], h[:32])
	return out
}

func publicKeyToCurve25519(key ed25519.PublicKey) ([32]byte, error) {
	var out [32]byte

	p, err := new(edwards25519.Point).SetBytes(key)
	if err != nil {
		return out, fmt.Errorf("mtg: invalid public key: %w", err)
	}

	copy(out[:], p.BytesMontgomery())
	return out, nil
}
