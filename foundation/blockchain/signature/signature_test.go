package signature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qcbit/ledger/foundation/blockchain/signature"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, pub, err := signature.GenerateKeys()
	require.NoError(t, err)

	data := []byte(`{"amount":10,"nonce":1,"receiver":"bob","sender":"alice"}`)

	sigHex, err := signature.Sign(priv, data)
	require.NoError(t, err)

	assert.NoError(t, signature.Verify(pub, data, sigHex))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	priv, _, err := signature.GenerateKeys()
	require.NoError(t, err)

	_, otherPub, err := signature.GenerateKeys()
	require.NoError(t, err)

	data := []byte("some transaction bytes")
	sigHex, err := signature.Sign(priv, data)
	require.NoError(t, err)

	err = signature.Verify(otherPub, data, sigHex)
	assert.ErrorIs(t, err, signature.ErrInvalidSignature)
}

func TestVerifyRejectsTamperedData(t *testing.T) {
	priv, pub, err := signature.GenerateKeys()
	require.NoError(t, err)

	sigHex, err := signature.Sign(priv, []byte("original"))
	require.NoError(t, err)

	err = signature.Verify(pub, []byte("tampered"), sigHex)
	assert.ErrorIs(t, err, signature.ErrInvalidSignature)
}

func TestVerifyRejectsMalformedHex(t *testing.T) {
	_, pub, err := signature.GenerateKeys()
	require.NoError(t, err)

	err = signature.Verify(pub, []byte("data"), "not-hex-zz")
	assert.ErrorIs(t, err, signature.ErrInvalidSignature)
}
