package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// PROTOCOL NAME HASH CONSTANTS
// =============================================================================

func TestProtocolNameHash_MatchesTabulatedChaCha(t *testing.T) {
	got := protocolNameHash(protocolNameChaCha)
	assert.Equal(t, hashedProtocolNameChaCha, got)
}

func TestProtocolNameHash_MatchesTabulatedAES(t *testing.T) {
	got := protocolNameHash(protocolNameAES)
	assert.Equal(t, hashedProtocolNameAES, got)
}

func TestProtocolNameHash_ShortNamePadsRatherThanHashes(t *testing.T) {
	got := protocolNameHash("short")
	var want [HashSize]byte
	copy(want[:], "short")
	assert.Equal(t, want, got)
}

func TestCipherCodeAESG_LittleEndianOfASCIIBigEndian(t *testing.T) {
	// "AESG" read as a big-endian uint32 is 0x41455347; written
	// little-endian that is 0x47, 0x53, 0x45, 0x41.
	assert.Equal(t, [4]byte{0x47, 0x53, 0x45, 0x41}, cipherCodeAESG)
}
