// Package crypto defines the optional encryption collaborator used by the
// transport adapter, and provides a secp256k1 ECIES implementation of it.
//
// Encryption is strictly best-effort at the orchestration layer: a missing
// key or a bad parameter makes the adapter fall back to plaintext rather
// than lose the destination. The sentinel errors below are how an
// implementation signals which case it hit.
package crypto

import "errors"

var (
	// ErrNoKey means there is no key material for the given address. The
	// adapter treats it as "send plaintext".
	ErrNoKey = errors.New("no key material for address")

	// ErrBadParam means an encryption parameter was invalid, for example an
	// empty recipient address. Also treated as "send plaintext".
	ErrBadParam = errors.New("invalid encryption parameter")
)

// Crypto encrypts message bodies for a recipient and decrypts bodies received
// from a sender. Implementations must be safe for concurrent use.
type Crypto interface {
	Encrypt(plain []byte, recipient string) ([]byte, error)

	Decrypt(cipher []byte, sender string) ([]byte, error)
}
