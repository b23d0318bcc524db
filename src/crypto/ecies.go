package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec"
)

/*
Relaygrid key material is based on elliptic curve cryptography. We use the
secp256k1 curve because btcsuite ships a solid golang implementation of both
the curve and the ECIES scheme built on it.
*/

// ECIES implements Crypto with secp256k1 ECIES. It holds the coordinator's
// private key and a ring of participant public keys. The ring is populated at
// construction time and never mutated afterwards, so no locking is needed.
type ECIES struct {
	key  *btcec.PrivateKey
	ring map[string]*btcec.PublicKey
}

// NewECIES creates an ECIES instance around the coordinator's private key.
func NewECIES(key *btcec.PrivateKey) *ECIES {
	return &ECIES{
		key:  key,
		ring: make(map[string]*btcec.PublicKey),
	}
}

// AddPublicKey registers a participant's public key under its address. Only
// call this while wiring the engine, before any messages flow.
func (e *ECIES) AddPublicKey(address string, pub *btcec.PublicKey) {
	e.ring[address] = pub
}

// Encrypt implements Crypto. It fails with ErrBadParam on an empty recipient
// and ErrNoKey when the recipient has no registered public key.
func (e *ECIES) Encrypt(plain []byte, recipient string) ([]byte, error) {
	if recipient == "" {
		return nil, fmt.Errorf("%w: empty recipient", ErrBadParam)
	}

	pub, ok := e.ring[recipient]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoKey, recipient)
	}

	return btcec.Encrypt(pub, plain)
}

// Decrypt implements Crypto. Replies are encrypted to the coordinator's key,
// so the sender address is not needed to decrypt; it is part of the interface
// for implementations that derive per-pair secrets.
func (e *ECIES) Decrypt(cipher []byte, sender string) ([]byte, error) {
	return btcec.Decrypt(e.key, cipher)
}
