package noise

import (
	"bytes"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

type initiatorState int

const (
	initiatorFresh initiatorState = iota
	initiatorSentE
	initiatorSentCipherList
	initiatorFinalized
	initiatorAborted
)

// Initiator is the anonymous side of the handshake: it has no static key
// of its own, and verifies the responder's certificate against the static
// key it expects to be talking to (pinned out of band, TOFU-style).
type Initiator struct {
	noCopy noCopy

	state initiatorState

	ss *symmetricState

	ePriv *btcec.PrivateKey
	ePub  [DHKeySize]byte

	expectedRemoteStatic [DHKeySize]byte
	remoteStatic         [DHKeySize]byte

	c1, c2 *cipherState
}

// NewInitiator starts a new initiator role expecting to authenticate the
// remote party against expectedRemoteStatic.
func NewInitiator(expectedRemoteStatic [DHKeySize]byte) (*Initiator, error) {
	ePriv, ePub, err := generateEphemeral()
	if err != nil {
		return nil, err
	}
	return &Initiator{
		state:                initiatorFresh,
		ss:                   newSymmetricState(),
		ePriv:                ePriv,
		ePub:                 ePub,
		expectedRemoteStatic: expectedRemoteStatic,
	}, nil
}

// Abort destroys all handshake key material and marks the role unusable.
func (i *Initiator) Abort() {
	i.ss.erase()
	if i.ePriv != nil {
		i.ePriv.Zero()
	}
	if i.c1 != nil {
		i.c1.eraseKey()
		i.c1 = nil
	}
	if i.c2 != nil {
		i.c2.eraseKey()
		i.c2 = nil
	}
	i.state = initiatorAborted
}

// Step0 produces the first, 32-byte handshake message: the initiator's
// ephemeral public key.
func (i *Initiator) Step0() ([DHKeySize]byte, error) {
	if i.state != initiatorFresh {
		i.Abort()
		return [DHKeySize]byte{}, &Error{Kind: HandshakeNotFinalized}
	}
	i.ss.mixHash(i.ePub[:])
	var empty []byte
	if err := i.ss.encryptAndHash(&empty); err != nil {
		i.Abort()
		return [DHKeySize]byte{}, err
	}
	i.state = initiatorSentE
	return i.ePub, nil
}

// Step2 consumes the responder's 170-byte second message, verifies the
// embedded certificate against the pinned expected static key, and
// produces the cipher_list message this implementation offers: ChaCha
// implicitly (the bare [0x00] choice always remains available) plus
// AES-256-GCM.
func (i *Initiator) Step2(msg [170]byte) ([]byte, error) {
	if i.state != initiatorSentE {
		i.Abort()
		return nil, &Error{Kind: HandshakeNotFinalized}
	}

	var rePub [DHKeySize]byte
	copy(rePub[:], msg[0:32])
	i.ss.mixHash(rePub[:])

	ecdh1, err := ecdh(i.ePriv, rePub)
	if err != nil {
		i.Abort()
		return nil, err
	}
	if err := i.ss.mixKey(ecdh1[:]); err != nil {
		i.Abort()
		return nil, err
	}

	staticCt := append([]byte(nil), msg[32:80]...)
	if err := i.ss.decryptAndHash(&staticCt); err != nil {
		i.Abort()
		return nil, err
	}
	var rsPub [DHKeySize]byte
	copy(rsPub[:], staticCt)

	ecdh2, err := ecdh(i.ePriv, rsPub)
	if err != nil {
		i.Abort()
		return nil, err
	}
	if err := i.ss.mixKey(ecdh2[:]); err != nil {
		i.Abort()
		return nil, err
	}

	certCt := append([]byte(nil), msg[80:170]...)
	if err := i.ss.decryptAndHash(&certCt); err != nil {
		i.Abort()
		return nil, err
	}

	if !bytes.Equal(rsPub[:], i.expectedRemoteStatic[:]) {
		i.Abort()
		return nil, &Error{Kind: InvalidCertificate, Bytes: certCt}
	}

	cert, err := parseCertificate(certCt)
	if err != nil {
		i.Abort()
		return nil, err
	}
	authority, err := schnorr.ParsePubKey(i.expectedRemoteStatic[:])
	if err != nil {
		i.Abort()
		return nil, &Error{Kind: InvalidCertificate, Bytes: certCt}
	}
	if err := cert.Verify(authority, rsPub); err != nil {
		i.Abort()
		return nil, err
	}

	c1, c2, err := i.ss.split()
	if err != nil {
		i.Abort()
		return nil, err
	}
	i.c1, i.c2 = c1, c2
	i.remoteStatic = rsPub
	i.state = initiatorSentCipherList

	return append([]byte{0x01}, cipherCodeAESG[:]...), nil
}

// Step4 consumes the responder's cipher_choice and produces the finalized
// Transport. A choice of [0x00] keeps ChaCha20-Poly1305; [0x01, AESG...]
// upgrades both transport cipher states to AES-256-GCM. Anything else is
// InvalidCipherList: the message itself doesn't parse as a cipher choice.
func (i *Initiator) Step4(cipherChoice []byte) (*Transport, error) {
	if i.state != initiatorSentCipherList {
		i.Abort()
		return nil, &Error{Kind: HandshakeNotFinalized}
	}

	switch {
	case len(cipherChoice) == 1 && cipherChoice[0] == 0x00:
		encryptor, decryptor := i.c1, i.c2
		encryptor.eraseKey()
		decryptor.eraseKey()
		i.finalize()
		return &Transport{encryptor: encryptor, decryptor: decryptor}, nil

	case len(cipherChoice) == 5 && cipherChoice[0] == 0x01 && bytes.Equal(cipherChoice[1:5], cipherCodeAESG[:]):
		encryptor, decryptor := i.c1, i.c2
		if err := encryptor.rekeyAs(variantAES); err != nil {
			i.Abort()
			return nil, err
		}
		if err := decryptor.rekeyAs(variantAES); err != nil {
			i.Abort()
			return nil, err
		}
		encryptor.eraseKey()
		decryptor.eraseKey()
		i.finalize()
		return &Transport{encryptor: encryptor, decryptor: decryptor}, nil

	default:
		i.Abort()
		return nil, &Error{Kind: InvalidCipherList, Bytes: append([]byte(nil), cipherChoice...)}
	}
}

func (i *Initiator) finalize() {
	i.ss.erase()
	if i.ePriv != nil {
		i.ePriv.Zero()
	}
	i.c1, i.c2 = nil, nil
	i.state = initiatorFinalized
}
