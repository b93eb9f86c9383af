package noise

import (
	"bytes"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

type responderState int

const (
	responderAwaitE responderState = iota
	responderSentEAndCert
	responderFinalized
	responderAborted
)

// Responder is the authenticated side of the handshake: it owns a static
// key bound into a certificate, and proposes the AEAD for the transport
// states it produces.
type Responder struct {
	noCopy noCopy

	state responderState

	ss *symmetricState

	ePriv *btcec.PrivateKey
	ePub  [DHKeySize]byte

	sPriv *btcec.PrivateKey
	sPub  [DHKeySize]byte

	c1, c2 *cipherState
}

// NewResponder starts a new responder role bound to staticKey. A fresh
// ephemeral keypair is generated immediately, matching the rest of this
// handshake's convention of minting 'e' at role construction rather than at
// first use.
func NewResponder(staticKey *btcec.PrivateKey) (*Responder, error) {
	if staticKey == nil {
		return nil, &Error{Kind: InvalidCipherState}
	}
	ePriv, ePub, err := generateEphemeral()
	if err != nil {
		return nil, err
	}
	var sPub [DHKeySize]byte
	copy(sPub[:], schnorr.SerializePubKey(staticKey.PubKey()))
	return &Responder{
		state: responderAwaitE,
		ss:    newSymmetricState(),
		ePriv: ePriv,
		ePub:  ePub,
		sPriv: staticKey,
		sPub:  sPub,
	}, nil
}

// Abort destroys all handshake key material and marks the role unusable.
// Safe to call more than once and safe to call after Step1/Step3 already
// aborted or finalized the role.
func (r *Responder) Abort() {
	r.ss.erase()
	if r.ePriv != nil {
		r.ePriv.Zero()
	}
	if r.c1 != nil {
		r.c1.eraseKey()
		r.c1 = nil
	}
	if r.c2 != nil {
		r.c2.eraseKey()
		r.c2 = nil
	}
	r.state = responderAborted
}

// Step1 consumes the initiator's ephemeral public key and produces the
// 170-byte second handshake message: the responder's own ephemeral key,
// its AEAD-sealed static key, and its AEAD-sealed signed certificate.
//
// signer is the authority key used to sign the certificate; pass r's own
// static key (available to the caller that constructed the Responder) to
// reproduce today's self-signed behavior, or a different key to delegate
// to an external authority.
func (r *Responder) Step1(remoteEphemeral [DHKeySize]byte, signer *btcec.PrivateKey, validFrom, notValidAfter uint32) ([170]byte, error) {
	var out [170]byte
	if r.state != responderAwaitE {
		r.Abort()
		return out, &Error{Kind: HandshakeNotFinalized}
	}

	r.ss.mixHash(remoteEphemeral[:])
	var empty []byte
	if err := r.ss.decryptAndHash(&empty); err != nil {
		r.Abort()
		return out, err
	}

	r.ss.mixHash(r.ePub[:])
	copy(out[0:32], r.ePub[:])

	ecdh1, err := ecdh(r.ePriv, remoteEphemeral)
	if err != nil {
		r.Abort()
		return out, err
	}
	if err := r.ss.mixKey(ecdh1[:]); err != nil {
		r.Abort()
		return out, err
	}

	staticBuf := append([]byte(nil), r.sPub[:]...)
	if err := r.ss.encryptAndHash(&staticBuf); err != nil {
		r.Abort()
		return out, err
	}
	copy(out[32:80], staticBuf)

	ecdh2, err := ecdh(r.sPriv, remoteEphemeral)
	if err != nil {
		r.Abort()
		return out, err
	}
	if err := r.ss.mixKey(ecdh2[:]); err != nil {
		r.Abort()
		return out, err
	}

	cert, err := SignCertificate(signer, r.sPub, validFrom, notValidAfter)
	if err != nil {
		r.Abort()
		return out, err
	}
	certBuf := cert.serialize()
	if err := r.ss.encryptAndHash(&certBuf); err != nil {
		r.Abort()
		return out, err
	}
	copy(out[80:170], certBuf)

	c1, c2, err := r.ss.split()
	if err != nil {
		r.Abort()
		return out, err
	}
	r.c1, r.c2 = c1, c2
	r.state = responderSentEAndCert
	return out, nil
}

// Step3 consumes the initiator's cipher_list and produces the
// cipher_choice message plus the finalized Transport, applying the
// following negotiation rule:
//   - empty list: CipherListMustBeNonEmpty
//   - exactly [0x00]: ChaCha20-Poly1305 chosen, reply [0x00]
//   - count*4+1 bytes with a 4-byte AESG entry: AES-256-GCM chosen, reply
//     [0x01, 'A','E','S','G']-coded bytes
//   - a well-formed list naming no supported cipher: UnsupportedCiphers
//   - anything else: InvalidCipherList
func (r *Responder) Step3(cipherList []byte) ([]byte, *Transport, error) {
	if r.state != responderSentEAndCert {
		r.Abort()
		return nil, nil, &Error{Kind: HandshakeNotFinalized}
	}

	switch {
	case len(cipherList) == 0:
		r.Abort()
		return nil, nil, &Error{Kind: CipherListMustBeNonEmpty}

	case len(cipherList) == 1 && cipherList[0] == 0x00:
		encryptor, decryptor := r.c2, r.c1
		encryptor.eraseKey()
		decryptor.eraseKey()
		r.finalize()
		return []byte{0x00}, &Transport{encryptor: encryptor, decryptor: decryptor}, nil

	case len(cipherList) >= 5 && int(cipherList[0])*4+1 == len(cipherList) && cipherList[0] <= MaxCipherListEntries:
		for i := 1; i+4 <= len(cipherList); i += 4 {
			if bytes.Equal(cipherList[i:i+4], cipherCodeAESG[:]) {
				encryptor, decryptor := r.c2, r.c1
				if err := encryptor.rekeyAs(variantAES); err != nil {
					r.Abort()
					return nil, nil, err
				}
				if err := decryptor.rekeyAs(variantAES); err != nil {
					r.Abort()
					return nil, nil, err
				}
				encryptor.eraseKey()
				decryptor.eraseKey()
				r.finalize()
				choice := append([]byte{0x01}, cipherCodeAESG[:]...)
				return choice, &Transport{encryptor: encryptor, decryptor: decryptor}, nil
			}
		}
		r.Abort()
		return nil, nil, &Error{Kind: UnsupportedCiphers, Bytes: append([]byte(nil), cipherList...)}

	default:
		r.Abort()
		return nil, nil, &Error{Kind: InvalidCipherList, Bytes: append([]byte(nil), cipherList...)}
	}
}

// finalize marks the role complete and destroys the now-unneeded handshake
// remnants (chaining key, transcript hash, ephemeral scalar); only the
// already-produced Transport's cipher states remain live. The static key
// passed to NewResponder is not zeroed.
func (r *Responder) finalize() {
	r.ss.erase()
	if r.ePriv != nil {
		r.ePriv.Zero()
	}
	r.c1, r.c2 = nil, nil
	r.state = responderFinalized
}
