package noise

// Transport is the post-handshake secure channel: one cipher state for each
// direction, each with its own independent, forward-only nonce counter.
// Nothing above the AEAD layer (message framing, backpressure, reconnects)
// is this package's concern — the caller owns the socket.
type Transport struct {
	noCopy noCopy

	encryptor *cipherState
	decryptor *cipherState
}

// Encrypt seals buf in place with no associated data, advancing the send
// counter. It fails closed (InvalidCipherState) once the send counter would
// otherwise wrap.
func (t *Transport) Encrypt(buf *[]byte) error {
	return t.encryptor.encrypt(nil, buf)
}

// Decrypt opens buf in place with no associated data, advancing the
// receive counter. Tampered ciphertext or a reused/out-of-order nonce
// surfaces as AeadFailure.
func (t *Transport) Decrypt(buf *[]byte) error {
	return t.decryptor.decrypt(nil, buf)
}

// Close destroys both directions' key material. The underlying AEAD
// objects keep their own internal key schedules independent of the struct
// fields zeroed here, so Close must be the last use of this Transport.
func (t *Transport) Close() {
	if t.encryptor != nil {
		zeroize(t.encryptor.key[:])
	}
	if t.decryptor != nil {
		zeroize(t.decryptor.key[:])
	}
}
