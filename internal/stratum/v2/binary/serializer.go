// Package binary provides the little-endian primitive byte encoding used
// across the Stratum V2 wire formats: a growable writer and a cursor-based
// reader, both zero-allocation beyond the backing buffer itself.
package binary

import (
	"bytes"
	"encoding/binary"
	"io"
)

// =============================================================================
// STRATUM V2 PRIMITIVE SERIALIZER
// Little-endian encoding for fixed-width wire fields (certificate, nonces,
// handshake message headers). Not a general message codec: higher-level
// Stratum V2 subprotocols own their own payload layouts.
// =============================================================================

// Serializer accumulates little-endian encoded primitives into a buffer.
type Serializer struct {
	buf *bytes.Buffer
}

// NewSerializer creates a new serializer with a pre-allocated buffer.
func NewSerializer() *Serializer {
	return &Serializer{
		buf: bytes.NewBuffer(make([]byte, 0, 128)),
	}
}

// Reset resets the buffer for reuse.
func (s *Serializer) Reset() {
	s.buf.Reset()
}

// Bytes returns the serialized bytes.
func (s *Serializer) Bytes() []byte {
	return s.buf.Bytes()
}

// Len returns the current length.
func (s *Serializer) Len() int {
	return s.buf.Len()
}

// WriteU8 writes a uint8.
func (s *Serializer) WriteU8(v uint8) {
	s.buf.WriteByte(v)
}

// WriteU16 writes a uint16 in little-endian.
func (s *Serializer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	s.buf.Write(b[:])
}

// WriteU32 writes a uint32 in little-endian.
func (s *Serializer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	s.buf.Write(b[:])
}

// WriteU64 writes a uint64 in little-endian.
func (s *Serializer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	s.buf.Write(b[:])
}

// WriteBytes writes raw bytes.
func (s *Serializer) WriteBytes(b []byte) {
	s.buf.Write(b)
}

// =============================================================================
// DESERIALIZER
// =============================================================================

// Deserializer walks a byte slice reading little-endian primitives.
type Deserializer struct {
	data []byte
	pos  int
}

// NewDeserializer creates a new deserializer over data.
func NewDeserializer(data []byte) *Deserializer {
	return &Deserializer{data: data}
}

// Remaining returns the number of unread bytes.
func (d *Deserializer) Remaining() int {
	return len(d.data) - d.pos
}

// ReadU8 reads a uint8.
func (d *Deserializer) ReadU8() (uint8, error) {
	if d.Remaining() < 1 {
		return 0, io.ErrUnexpectedEOF
	}
	v := d.data[d.pos]
	d.pos++
	return v, nil
}

// ReadU16 reads a uint16 in little-endian.
func (d *Deserializer) ReadU16() (uint16, error) {
	if d.Remaining() < 2 {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return v, nil
}

// ReadU32 reads a uint32 in little-endian.
func (d *Deserializer) ReadU32() (uint32, error) {
	if d.Remaining() < 4 {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

// ReadU64 reads a uint64 in little-endian.
func (d *Deserializer) ReadU64() (uint64, error) {
	if d.Remaining() < 8 {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint64(d.data[d.pos:])
	d.pos += 8
	return v, nil
}

// ReadBytes reads n bytes.
func (d *Deserializer) ReadBytes(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, io.ErrUnexpectedEOF
	}
	v := make([]byte, n)
	copy(v, d.data[d.pos:d.pos+n])
	d.pos += n
	return v, nil
}
