package noise

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificate_SelfSignedRoundTrip(t *testing.T) {
	staticKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	var staticPub [DHKeySize]byte
	copy(staticPub[:], schnorr.SerializePubKey(staticKey.PubKey()))

	cert, err := SignCertificate(staticKey, staticPub, 1000, 1000+DefaultValiditySeconds)
	require.NoError(t, err)

	require.NoError(t, cert.Verify(staticKey.PubKey(), staticPub))
}

func TestCertificate_WrongAuthorityFailsVerify(t *testing.T) {
	staticKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	var staticPub [DHKeySize]byte
	copy(staticPub[:], schnorr.SerializePubKey(staticKey.PubKey()))

	otherKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	cert, err := SignCertificate(staticKey, staticPub, 0, DefaultValiditySeconds)
	require.NoError(t, err)

	err = cert.Verify(otherKey.PubKey(), staticPub)
	require.Error(t, err)
	var nerr *Error
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, InvalidCertificate, nerr.Kind)
}

func TestCertificate_TamperedSignatureFailsVerify(t *testing.T) {
	staticKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	var staticPub [DHKeySize]byte
	copy(staticPub[:], schnorr.SerializePubKey(staticKey.PubKey()))

	cert, err := SignCertificate(staticKey, staticPub, 0, DefaultValiditySeconds)
	require.NoError(t, err)
	cert.Signature[0] ^= 0xFF

	assert.Error(t, cert.Verify(staticKey.PubKey(), staticPub))
}

func TestCertificate_SerializeParseRoundTrip(t *testing.T) {
	staticKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	var staticPub [DHKeySize]byte
	copy(staticPub[:], schnorr.SerializePubKey(staticKey.PubKey()))

	cert, err := SignCertificate(staticKey, staticPub, 42, 4242)
	require.NoError(t, err)

	data := cert.serialize()
	assert.Len(t, data, CertificateSize)

	parsed, err := parseCertificate(data)
	require.NoError(t, err)
	assert.Equal(t, cert, parsed)
}

func TestParseCertificate_RejectsWrongLength(t *testing.T) {
	_, err := parseCertificate(make([]byte, CertificateSize-1))
	require.Error(t, err)
	var nerr *Error
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, InvalidCertificate, nerr.Kind)
}
