package noise

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/chimera-pool/sv2-noise/internal/stratum/v2/binary"
)

// Certificate is the responder's signed binding of its static public key to
// a validity window. It is carried, AEAD-sealed, in the last 90 bytes of the
// second handshake message and verified by the initiator against the authority key it was
// configured with out of band.
type Certificate struct {
	Version       uint16
	ValidFrom     uint32
	NotValidAfter uint32
	Signature     [SignatureSize]byte
}

// SignCertificate builds and signs a certificate binding staticPub to the
// [validFrom, notValidAfter) window, using signer as the authority key. In
// the common self-signed deployment, signer is the responder's own static
// private key; a pluggable authority is supported by simply passing a
// different key.
func SignCertificate(signer *btcec.PrivateKey, staticPub [DHKeySize]byte, validFrom, notValidAfter uint32) (*Certificate, error) {
	cert := &Certificate{
		Version:       certificateVersion,
		ValidFrom:     validFrom,
		NotValidAfter: notValidAfter,
	}
	digest := cert.signedDigest(staticPub)
	sig, err := schnorr.Sign(signer, digest[:])
	if err != nil {
		return nil, err
	}
	copy(cert.Signature[:], sig.Serialize())
	return cert, nil
}

// Verify checks the certificate's signature against authority for the given
// static public key, and that the certificate's own version field is one
// this implementation understands. It does not check the validity window
// against wall-clock time: that policy decision is left to the caller.
func (c *Certificate) Verify(authority *btcec.PublicKey, staticPub [DHKeySize]byte) error {
	if c.Version != certificateVersion {
		return &Error{Kind: InvalidCertificate, Bytes: c.serialize()}
	}
	digest := c.signedDigest(staticPub)
	sig, err := schnorr.ParseSignature(c.Signature[:])
	if err != nil {
		return &Error{Kind: InvalidCertificate, Bytes: c.serialize()}
	}
	if !sig.Verify(digest[:], authority) {
		return &Error{Kind: InvalidCertificate, Bytes: c.serialize()}
	}
	return nil
}

// signedDigest is SHA-256 over staticPub followed by the certificate's own
// fields (version, validity window) — everything but the signature itself.
func (c *Certificate) signedDigest(staticPub [DHKeySize]byte) [32]byte {
	s := binary.NewSerializer()
	s.WriteBytes(staticPub[:])
	s.WriteU16(c.Version)
	s.WriteU32(c.ValidFrom)
	s.WriteU32(c.NotValidAfter)
	return sha256.Sum256(s.Bytes())
}

// serialize lays out the certificate exactly as it appears in the
// AEAD-sealed handshake message: version, validity window, signature.
func (c *Certificate) serialize() []byte {
	s := binary.NewSerializer()
	s.WriteU16(c.Version)
	s.WriteU32(c.ValidFrom)
	s.WriteU32(c.NotValidAfter)
	s.WriteBytes(c.Signature[:])
	return s.Bytes()
}

// parseCertificate decodes the CertificateSize-byte plaintext produced by
// decrypting the certificate part of the second handshake message.
func parseCertificate(data []byte) (*Certificate, error) {
	if len(data) != CertificateSize {
		return nil, &Error{Kind: InvalidCertificate, Bytes: append([]byte(nil), data...)}
	}
	d := binary.NewDeserializer(data)
	version, err := d.ReadU16()
	if err != nil {
		return nil, &Error{Kind: InvalidCertificate, Bytes: append([]byte(nil), data...)}
	}
	validFrom, err := d.ReadU32()
	if err != nil {
		return nil, &Error{Kind: InvalidCertificate, Bytes: append([]byte(nil), data...)}
	}
	notValidAfter, err := d.ReadU32()
	if err != nil {
		return nil, &Error{Kind: InvalidCertificate, Bytes: append([]byte(nil), data...)}
	}
	sigBytes, err := d.ReadBytes(SignatureSize)
	if err != nil {
		return nil, &Error{Kind: InvalidCertificate, Bytes: append([]byte(nil), data...)}
	}
	cert := &Certificate{Version: version, ValidFrom: validFrom, NotValidAfter: notValidAfter}
	copy(cert.Signature[:], sigBytes)
	return cert, nil
}
