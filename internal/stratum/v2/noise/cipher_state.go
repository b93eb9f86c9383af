package noise

import (
	"encoding/binary"
	"math"
)

// cipherState pairs a live AEAD with the raw key bytes that produced it and
// a strictly-increasing nonce counter. The raw key is kept alongside the
// already-constructed AEAD so a transport cipher state can be rekeyed into
// a different AEAD (AES-GCM on negotiation) without re-deriving key
// material; once a variant is finalized the raw copy is erased and only the
// live AEAD remains.
type cipherState struct {
	key     [32]byte
	counter uint64
	aead    aeadCipher
}

func newCipherState(key [32]byte, variant cipherVariant) (*cipherState, error) {
	aead, err := newAEAD(variant, key)
	if err != nil {
		return nil, err
	}
	return &cipherState{key: key, aead: aead}, nil
}

// nonce encodes counter as 4 zero bytes followed by a little-endian uint64.
// It does not advance counter;
// callers advance it only after the AEAD call it guards succeeds.
func (cs *cipherState) nonce() ([nonceSize]byte, error) {
	if cs.counter == math.MaxUint64 {
		return [nonceSize]byte{}, &Error{Kind: InvalidCipherState}
	}
	var n [nonceSize]byte
	binary.LittleEndian.PutUint64(n[4:], cs.counter)
	return n, nil
}

// rekeyAs rebuilds the live AEAD over the retained raw key using a
// different variant, for the AES-GCM upgrade path. The nonce counter is
// left untouched: rekeying only ever happens before any transport message
// has been sent or received on this state, so it is already zero.
func (cs *cipherState) rekeyAs(variant cipherVariant) error {
	aead, err := newAEAD(variant, cs.key)
	if err != nil {
		return err
	}
	cs.aead = aead
	return nil
}

// eraseKey zeroes the retained raw key bytes once no further rekey will
// ever be needed (cipher negotiation has finalized). The live AEAD built
// from those bytes keeps working; only the redundant copy is destroyed.
func (cs *cipherState) eraseKey() {
	zeroize(cs.key[:])
}

func (cs *cipherState) encrypt(ad []byte, buf *[]byte) error {
	n, err := cs.nonce()
	if err != nil {
		return err
	}
	if err := cs.aead.encrypt(n, ad, buf); err != nil {
		return err
	}
	cs.counter++
	return nil
}

func (cs *cipherState) decrypt(ad []byte, buf *[]byte) error {
	n, err := cs.nonce()
	if err != nil {
		return err
	}
	if err := cs.aead.decrypt(n, ad, buf); err != nil {
		return err
	}
	cs.counter++
	return nil
}
