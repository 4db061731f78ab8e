// Package ownerauth provides detached message signing and verification
// bound to a project's declared authentication key.
package ownerauth

import (
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/decred/dcrd/dcrec/secp256k1/v3/ecdsa"
	"github.com/go-errors/errors"
)

// SignatureError reports a signing or verification failure bound to the
// project's auth key. It carries a stack trace captured at the point of
// failure, in the style of this module's annoucement-validation errors.
type SignatureError struct {
	Reason string
	*errors.Error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("owner auth: %s", e.Reason)
}

func newSignatureError(reason string) *SignatureError {
	return &SignatureError{Reason: reason, Error: errors.New(reason)}
}

// SignAsOwner produces a detached, hex-encoded signature of message
// using the project owner's private auth key. The digest committed to
// is the Blake256r14 hash of message, matching the hashing scheme used
// for project identity.
func SignAsOwner(message []byte, key *secp256k1.PrivateKey) (string, error) {
	digest := chainhash.HashB(message)
	sig := ecdsa.Sign(key, digest)
	return hex.EncodeToString(sig.Serialize()), nil
}

// AuthenticateOwner verifies a hex-encoded detached signature against
// message and the project's declared auth public key. Signing a
// different message, or presenting a signature from a different key,
// fails with a *SignatureError; the same message and signature verifies.
func AuthenticateOwner(message []byte, signatureHex string, authKey *secp256k1.PublicKey) error {
	raw, err := hex.DecodeString(signatureHex)
	if err != nil {
		return newSignatureError(fmt.Sprintf("malformed signature hex: %v", err))
	}
	sig, err := ecdsa.ParseDERSignature(raw)
	if err != nil {
		return newSignatureError(fmt.Sprintf("malformed signature: %v", err))
	}

	digest := chainhash.HashB(message)
	if !sig.Verify(digest, authKey) {
		return newSignatureError("signature does not verify against the project's auth key")
	}
	return nil
}
