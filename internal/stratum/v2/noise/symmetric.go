package noise

import (
	"crypto/sha256"
	"io"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"golang.org/x/crypto/hkdf"
)

// symmetricState is the running chaining key / transcript hash / handshake
// cipher triple threaded through every handshake message. The handshake
// cipher (cs) is always ChaCha20-Poly1305: cipher negotiation only ever
// chooses the AEAD for the transport states produced at split, never for
// the handshake messages themselves (see the doc comment on the protocol
// name constants in noise.go).
type symmetricState struct {
	ck [HashSize]byte
	h  [HashSize]byte
	cs *cipherState
}

// newSymmetricState seeds ck and h from the tabulated ChaCha protocol name
// hash, per Noise's Initialize rule.
func newSymmetricState() *symmetricState {
	return &symmetricState{
		ck: hashedProtocolNameChaCha,
		h:  hashedProtocolNameChaCha,
	}
}

func (ss *symmetricState) mixHash(data []byte) {
	h := sha256.New()
	h.Write(ss.h[:])
	h.Write(data)
	copy(ss.h[:], h.Sum(nil))
}

// mixKey runs HKDF-2(ck, ikm), replaces ck with the first output and
// establishes (or replaces) the handshake cipher from the second.
func (ss *symmetricState) mixKey(ikm []byte) error {
	outs, err := hkdfExpand(ss.ck[:], ikm, 2)
	if err != nil {
		return err
	}
	ss.ck = outs[0]
	cs, err := newCipherState(outs[1], variantChaCha)
	if err != nil {
		return err
	}
	ss.cs = cs
	return nil
}

// encryptAndHash seals buf in place (or, with no key established yet, just
// mixes it into h as plaintext) using h as associated data, then mixes the
// resulting ciphertext into h.
func (ss *symmetricState) encryptAndHash(buf *[]byte) error {
	if ss.cs == nil {
		ss.mixHash(*buf)
		return nil
	}
	ad := ss.h
	if err := ss.cs.encrypt(ad[:], buf); err != nil {
		return err
	}
	ss.mixHash(*buf)
	return nil
}

// decryptAndHash mirrors encryptAndHash: it mixes the ciphertext into h
// using the pre-decrypt value of h as associated data, then opens buf in
// place against that same, now-superseded h value.
func (ss *symmetricState) decryptAndHash(buf *[]byte) error {
	if ss.cs == nil {
		ss.mixHash(*buf)
		return nil
	}
	ad := ss.h
	ss.mixHash(*buf)
	if err := ss.cs.decrypt(ad[:], buf); err != nil {
		return err
	}
	return nil
}

// split derives the two transport cipher states from the final chaining
// key. Both start ChaCha-keyed; cipher negotiation may later rekey them to
// AES-GCM via cipherState.rekeyAs before any transport message is sent.
func (ss *symmetricState) split() (c1, c2 *cipherState, err error) {
	outs, err := hkdfExpand(ss.ck[:], nil, 2)
	if err != nil {
		return nil, nil, err
	}
	c1, err = newCipherState(outs[0], variantChaCha)
	if err != nil {
		return nil, nil, err
	}
	c2, err = newCipherState(outs[1], variantChaCha)
	if err != nil {
		return nil, nil, err
	}
	return c1, c2, nil
}

// erase destroys the chaining key, transcript hash and any live handshake
// cipher key. Called on every exit path out of a handshake role: success
// (after split, these are no longer needed), abort, or an early return on
// error.
func (ss *symmetricState) erase() {
	zeroize(ss.ck[:])
	zeroize(ss.h[:])
	if ss.cs != nil {
		ss.cs.eraseKey()
		ss.cs = nil
	}
}

// hkdfExpand runs HKDF-SHA256 with salt as the Noise chaining key and ikm as
// the input key material, producing n independent 32-byte outputs.
func hkdfExpand(salt, ikm []byte, n int) ([][32]byte, error) {
	r := hkdf.New(sha256.New, ikm, salt, nil)
	outs := make([][32]byte, n)
	for i := range outs {
		if _, err := io.ReadFull(r, outs[i][:]); err != nil {
			return nil, err
		}
	}
	return outs, nil
}

// generateEphemeral produces a fresh secp256k1 keypair and its x-only
// public key encoding for the 'e' token.
func generateEphemeral() (*btcec.PrivateKey, [DHKeySize]byte, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, [DHKeySize]byte{}, err
	}
	var pub [DHKeySize]byte
	copy(pub[:], schnorr.SerializePubKey(priv.PubKey()))
	return priv, pub, nil
}

// ecdh performs X(priv, pub) for an x-only remote public key: the x-only
// encoding is reconstructed to a full point assuming even Y parity (the
// convention BIP-340/schnorr.ParsePubKey already uses), then scalar-
// multiplied by priv. The resulting point's x-coordinate is the shared
// secret, matching secp256k1 ECDH as used throughout the handshake.
func ecdh(priv *btcec.PrivateKey, xOnlyPub [DHKeySize]byte) ([32]byte, error) {
	pub, err := schnorr.ParsePubKey(xOnlyPub[:])
	if err != nil {
		return [32]byte{}, err
	}
	uncompressed := pub.SerializeUncompressed()
	x := new(big.Int).SetBytes(uncompressed[1:33])
	y := new(big.Int).SetBytes(uncompressed[33:65])
	sx, _ := btcec.S256().ScalarMult(x, y, priv.Serialize())

	var shared [32]byte
	sxBytes := sx.Bytes()
	copy(shared[32-len(sxBytes):], sxBytes)
	return shared, nil
}
