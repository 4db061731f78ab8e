package ownerauth

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/stretchr/testify/require"
)

func TestS10SignAndAuthenticate(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	message := []byte("I am the owner of project deadbeef")
	sigHex, err := SignAsOwner(message, key)
	require.NoError(t, err)

	require.NoError(t, AuthenticateOwner(message, sigHex, key.PubKey()))
}

func TestAuthenticateRejectsDifferentMessage(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	sigHex, err := SignAsOwner([]byte("original message"), key)
	require.NoError(t, err)

	err = AuthenticateOwner([]byte("a different message"), sigHex, key.PubKey())
	require.Error(t, err)
	require.IsType(t, &SignatureError{}, err)
}

func TestAuthenticateRejectsWrongKey(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	otherKey, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	message := []byte("ownership claim")
	sigHex, err := SignAsOwner(message, key)
	require.NoError(t, err)

	err = AuthenticateOwner(message, sigHex, otherKey.PubKey())
	require.Error(t, err)
}

func TestAuthenticateRejectsMalformedHex(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	err = AuthenticateOwner([]byte("message"), "not-hex", key.PubKey())
	require.Error(t, err)
}
