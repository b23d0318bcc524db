package transport

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/relaygrid/relaygrid/src/crypto"
	"github.com/relaygrid/relaygrid/src/envelope"
	"github.com/relaygrid/relaygrid/src/participants"
)

// Status is the three-way outcome of resolving a correlation id. The split
// keeps "not yet arrived", which is frequent and expected, out of the error
// path.
type Status int

const (
	// Pending means no response has arrived yet; retry later.
	Pending Status = iota

	// Failed means the response is unusable (application error envelope,
	// empty or corrupt bytes); the correlation id is dead.
	Failed

	// Resolved means a well-formed reply envelope was decoded.
	Resolved
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Failed:
		return "Failed"
	case Resolved:
		return "Resolved"
	}
	return "Unknown"
}

// maxResolveErrors is the number of consecutive transport read errors
// tolerated per correlation id before it is declared Failed. Without the cap a
// dead transport would keep a no-deadline gather polling forever.
const maxResolveErrors = 10

// Adapter sits between the orchestrator and the raw Transport. It owns
// serialization of envelopes and the best-effort encryption pass.
type Adapter struct {
	transport Transport
	crypto    crypto.Crypto
	logger    *logrus.Entry

	l         sync.Mutex
	errCounts map[string]int
}

// NewAdapter wraps a Transport. A nil Crypto disables encryption entirely.
func NewAdapter(t Transport, c crypto.Crypto, logger *logrus.Entry) *Adapter {
	return &Adapter{
		transport: t,
		crypto:    c,
		logger:    logger.WithField("component", "adapter"),
		errCounts: make(map[string]int),
	}
}

// Submit serializes and sends one envelope, returning the correlation id
// under which the response will eventually appear.
//
// Encryption is best-effort: when the destination has no key material, or the
// parameters are off, the message goes out plaintext so a key-less
// participant still takes part in the round. Any other error aborts only this
// destination and is returned to the caller to log and skip.
func (a *Adapter) Submit(env *envelope.Envelope, dest *participants.Participant) (string, error) {
	data, err := env.Marshal()
	if err != nil {
		return "", err
	}

	body := data
	encrypted := false

	if a.crypto != nil {
		ciphered, err := a.crypto.Encrypt(data, dest.Address)
		switch {
		case err == nil:
			body = ciphered
			encrypted = true
		case errors.Is(err, crypto.ErrNoKey) || errors.Is(err, crypto.ErrBadParam):
			a.logger.WithFields(logrus.Fields{
				"dest":  dest.Address,
				"error": err,
			}).Warning("Encryption unavailable, falling back to plaintext")
		default:
			return "", err
		}
	}

	correlationID := generateUUID()

	if err := a.transport.Put(dest.Address, correlationID, body); err != nil {
		return "", err
	}

	a.logger.WithFields(logrus.Fields{
		"dest":           dest.Address,
		"correlation_id": correlationID,
		"type":           env.Type,
		"encrypted":      encrypted,
		"bytes":          len(body),
	}).Debug("Submitted message")

	return correlationID, nil
}

// Resolve polls the transport for the response to a correlation id and
// classifies the outcome. from is the participant the request was sent to,
// ie. the expected sender of the reply.
//
// A transport read error is Pending, so transient outages are retried on the
// next poll, but only up to maxResolveErrors consecutive times; after that, or
// on ErrUnknownCorrelation, the id is Failed. Decryption is best-effort in the
// other direction: bytes that fail to decrypt are fed to the decoder as
// plaintext, since peers may legitimately differ on encryption support during
// a rollout.
func (a *Adapter) Resolve(correlationID string, from *participants.Participant) (*envelope.Envelope, Status) {
	data, ok, err := a.transport.Get(correlationID)
	if err != nil {
		if errors.Is(err, ErrUnknownCorrelation) {
			a.logger.WithFields(logrus.Fields{
				"correlation_id": correlationID,
				"error":          err,
			}).Error("Transport does not know this correlation id")
			return nil, Failed
		}

		a.l.Lock()
		a.errCounts[correlationID]++
		count := a.errCounts[correlationID]
		if count >= maxResolveErrors {
			delete(a.errCounts, correlationID)
		}
		a.l.Unlock()

		if count >= maxResolveErrors {
			a.logger.WithFields(logrus.Fields{
				"correlation_id": correlationID,
				"error":          err,
				"attempts":       count,
			}).Error("Transport keeps failing, giving up on correlation id")
			return nil, Failed
		}

		a.logger.WithFields(logrus.Fields{
			"correlation_id": correlationID,
			"error":          err,
		}).Warning("Transport read failed, will retry")
		return nil, Pending
	}

	a.l.Lock()
	delete(a.errCounts, correlationID)
	a.l.Unlock()

	if !ok {
		return nil, Pending
	}

	if len(data) == 0 {
		a.logger.WithField("correlation_id", correlationID).Error("Empty response")
		return nil, Failed
	}

	body := data
	if a.crypto != nil {
		plain, err := a.crypto.Decrypt(data, from.Address)
		if err == nil {
			body = plain
		} else {
			a.logger.WithFields(logrus.Fields{
				"correlation_id": correlationID,
				"error":          err,
			}).Debug("Response did not decrypt, treating as plaintext")
		}
	}

	reply := new(envelope.Envelope)
	if err := reply.Unmarshal(body); err != nil {
		a.logger.WithFields(logrus.Fields{
			"correlation_id": correlationID,
			"error":          err,
		}).Error("Corrupt response")
		return nil, Failed
	}

	if reply.HasError() {
		a.logger.WithFields(logrus.Fields{
			"correlation_id": correlationID,
			"code":           reply.Err.Code,
			"reason":         reply.Err.Reason,
		}).Error("Participant returned an error")
		return nil, Failed
	}

	a.logger.WithFields(logrus.Fields{
		"correlation_id": correlationID,
		"from":           from.Address,
		"bytes":          len(body),
	}).Debug("Resolved response")

	return reply, Resolved
}
