package noise

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"
)

// cipherVariant selects which AEAD backs a cipherState.
type cipherVariant int

const (
	variantChaCha cipherVariant = iota
	variantAES
)

// aeadCipher is the pluggable AEAD surface every cipherState drives. Both
// encrypt and decrypt mutate buf in place: encrypt grows it by TagSize,
// decrypt shrinks it by TagSize. This mirrors the stdlib's own
// "reuse plaintext's storage" convention for cipher.AEAD.Seal/Open.
type aeadCipher interface {
	encrypt(nonce [nonceSize]byte, ad []byte, buf *[]byte) error
	decrypt(nonce [nonceSize]byte, ad []byte, buf *[]byte) error
}

// newAEAD constructs the concrete cipher for variant over key. The error
// return passes through the library constructors' key-size checks; a
// 32-byte key never triggers it in either branch.
func newAEAD(variant cipherVariant, key [32]byte) (aeadCipher, error) {
	switch variant {
	case variantAES:
		return newAESGCMCipher(key)
	default:
		return newChaChaCipher(key)
	}
}

// chaChaCipher is the default transport and handshake AEAD.
type chaChaCipher struct {
	aead cipher.AEAD
}

func newChaChaCipher(key [32]byte) (*chaChaCipher, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	return &chaChaCipher{aead: aead}, nil
}

func (c *chaChaCipher) encrypt(nonce [nonceSize]byte, ad []byte, buf *[]byte) error {
	*buf = c.aead.Seal((*buf)[:0], nonce[:], *buf, ad)
	return nil
}

func (c *chaChaCipher) decrypt(nonce [nonceSize]byte, ad []byte, buf *[]byte) error {
	pt, err := c.aead.Open((*buf)[:0], nonce[:], *buf, ad)
	if err != nil {
		return &Error{Kind: AeadFailure}
	}
	*buf = pt
	return nil
}

// aesGCMCipher is the cipher negotiated via the AESG wire code. Built from
// crypto/aes + crypto/cipher.NewGCM rather than a third-party wrapper: no
// dedicated AES-GCM library exists to reach for, and this stdlib pairing
// is the idiomatic way AES-GCM gets built in Go regardless.
type aesGCMCipher struct {
	aead cipher.AEAD
}

func newAESGCMCipher(key [32]byte) (*aesGCMCipher, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &aesGCMCipher{aead: aead}, nil
}

func (c *aesGCMCipher) encrypt(nonce [nonceSize]byte, ad []byte, buf *[]byte) error {
	*buf = c.aead.Seal((*buf)[:0], nonce[:], *buf, ad)
	return nil
}

func (c *aesGCMCipher) decrypt(nonce [nonceSize]byte, ad []byte, buf *[]byte) error {
	pt, err := c.aead.Open((*buf)[:0], nonce[:], *buf, ad)
	if err != nil {
		return &Error{Kind: AeadFailure}
	}
	*buf = pt
	return nil
}
