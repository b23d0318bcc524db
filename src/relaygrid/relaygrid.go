package relaygrid

import (
	"fmt"

	"github.com/relaygrid/relaygrid/src/config"
	"github.com/relaygrid/relaygrid/src/crypto"
	"github.com/relaygrid/relaygrid/src/grid"
	"github.com/relaygrid/relaygrid/src/participants"
	"github.com/relaygrid/relaygrid/src/transport"
)

// RelayGrid assembles the orchestration stack from a Config: participant set,
// transport, optional crypto, and the Grid the coordinator's round logic
// talks to.
type RelayGrid struct {
	Config       *config.Config
	Participants *participants.Set
	Transport    transport.Transport
	Crypto       crypto.Crypto
	Grid         *grid.Grid
}

// NewRelayGrid creates an uninitialized engine; call Init before use.
func NewRelayGrid(config *config.Config) *RelayGrid {
	return &RelayGrid{
		Config: config,
	}
}

func (r *RelayGrid) initParticipants() error {
	store := participants.NewJSONParticipantSet(r.Config.DataDir)

	set, err := store.ParticipantSet()
	if err != nil {
		return err
	}

	if set.Len() < 1 {
		return fmt.Errorf("participants.json should define at least one participant")
	}

	r.Participants = set

	return nil
}

func (r *RelayGrid) initTransport() error {
	if r.Config.Store {
		t, err := transport.NewBadgerTransport(r.Config.DatabaseDir)
		if err != nil {
			return err
		}

		r.Transport = t

		r.Config.Logger().WithField("path", r.Config.DatabaseDir).Debug("Using badger transport")

		return nil
	}

	if r.Config.RelayDir == "" {
		return fmt.Errorf("relay-dir is required unless the badger store is enabled")
	}

	r.Transport = transport.NewFileTransport(
		r.Config.RelayDir,
		r.Config.SelfAddress,
		r.Config.AppName,
		r.Config.Logger(),
	)

	r.Config.Logger().WithField("path", r.Config.RelayDir).Debug("Using file transport")

	return nil
}

func (r *RelayGrid) initCrypto() error {
	if r.Config.NoEncryption {
		r.Config.Logger().Warning("Payload encryption is DISABLED")
		return nil
	}

	keyfile := crypto.NewSimpleKeyfile(r.Config.Keyfile())

	key, err := keyfile.ReadKey()
	if err != nil {
		r.Config.Logger().Warn("Cannot read private key from file", err)

		key, err = crypto.GenerateKey()
		if err != nil {
			return err
		}

		if err := keyfile.WriteKey(key); err != nil {
			return err
		}

		r.Config.Logger().Info("Created a new key: ", crypto.PubKeyHex(key.PubKey()))
	}

	ecies := crypto.NewECIES(key)

	for _, p := range r.Participants.Participants {
		if p.PubKeyHex == "" {
			r.Config.Logger().WithField("participant", p.Address).
				Warning("No public key, messages to this participant go plaintext")
			continue
		}

		pub, err := p.PubKey()
		if err != nil {
			return fmt.Errorf("bad public key for %s: %v", p.Address, err)
		}

		ecies.AddPublicKey(p.Address, pub)
	}

	r.Crypto = ecies

	return nil
}

func (r *RelayGrid) initGrid() error {
	adapter := transport.NewAdapter(r.Transport, r.Crypto, r.Config.Logger())

	r.Grid = grid.NewGrid(r.Config, r.Participants, adapter)

	return nil
}

// Init wires all the components in dependency order.
func (r *RelayGrid) Init() error {
	if err := r.initParticipants(); err != nil {
		return err
	}

	if err := r.initTransport(); err != nil {
		return err
	}

	if err := r.initCrypto(); err != nil {
		return err
	}

	if err := r.initGrid(); err != nil {
		return err
	}

	return nil
}

// Shutdown broadcasts the stop signal and closes the transport. It is safe to
// call on a partially initialized engine, so callers can defer it right after
// Init and still notify participants when a round blows up mid-run.
func (r *RelayGrid) Shutdown(reason string) {
	if r.Grid != nil {
		if _, err := r.Grid.SendStopSignal(reason); err != nil {
			r.Config.Logger().WithField("error", err).Error("Failed to send stop signal")
		}
	}

	if r.Transport != nil {
		if err := r.Transport.Close(); err != nil {
			r.Config.Logger().WithField("error", err).Error("Failed to close transport")
		}
	}
}
