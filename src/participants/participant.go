package participants

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec"
	"github.com/relaygrid/relaygrid/src/common"
)

// Participant is a remote party reachable through the store-and-forward
// transport. Its ID is derived from the address, so the same address always
// maps to the same ID, in this process and across restarts.
type Participant struct {
	// Address is the stable, email-like identifier of the participant on the
	// transport.
	Address string `json:"address"`

	// PubKeyHex is the participant's compressed secp256k1 public key. It is
	// optional and only used when payload encryption is enabled.
	PubKeyHex string `json:"pubkey,omitempty"`

	id uint32
}

// NewParticipant creates a Participant and computes its node ID.
func NewParticipant(address string) *Participant {
	return &Participant{
		Address: address,
		id:      common.Hash32([]byte(address)),
	}
}

// ID returns the node ID, computing it first if the Participant was built by
// decoding rather than by NewParticipant.
func (p *Participant) ID() uint32 {
	if p.id == 0 {
		p.id = common.Hash32([]byte(p.Address))
	}
	return p.id
}

// PubKey decodes PubKeyHex into a secp256k1 public key.
func (p *Participant) PubKey() (*btcec.PublicKey, error) {
	raw, err := hex.DecodeString(p.PubKeyHex)
	if err != nil {
		return nil, err
	}
	return btcec.ParsePubKey(raw, btcec.S256())
}
