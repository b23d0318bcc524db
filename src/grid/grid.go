// Package grid implements the round orchestrator: the scatter/gather engine
// that a round-based coordinator uses to drive remote participants over a
// store-and-forward transport.
//
// A Grid owns a fixed participant set and a single run context. The
// coordinator's round logic builds envelopes, scatters them with
// SendAndReceive, and broadcasts a stop signal when the run ends. There is no
// push notification anywhere in the stack, so gathering is a bounded polling
// loop: poll, sleep, poll, until everything resolved or the deadline passed.
package grid

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/relaygrid/relaygrid/src/config"
	"github.com/relaygrid/relaygrid/src/envelope"
	"github.com/relaygrid/relaygrid/src/participants"
	"github.com/relaygrid/relaygrid/src/transport"
)

// CoordinatorNodeID is the fixed node id of the coordinator itself.
// Participants get hash-derived ids; the coordinator is always 1.
const CoordinatorNodeID uint32 = 1

// StopGroupID tags the envelopes of the shutdown broadcast.
const StopGroupID = "shutdown"

// Grid drives rounds against a fixed set of participants. It is a single
// logical thread of control; run one Grid per concurrent run, they share
// nothing but the transport.
type Grid struct {
	conf         *config.Config
	logger       *logrus.Entry
	participants *participants.Set
	adapter      *transport.Adapter

	runID  int64
	runSet bool
}

// NewGrid creates a Grid over a participant set and a transport adapter.
func NewGrid(conf *config.Config, set *participants.Set, adapter *transport.Adapter) *Grid {
	g := &Grid{
		conf:         conf,
		logger:       conf.Logger().WithField("component", "grid"),
		participants: set,
		adapter:      adapter,
	}

	g.logger.WithFields(logrus.Fields{
		"participants": set.Addresses(),
		"node_id":      CoordinatorNodeID,
	}).Debug("Initialized grid")

	return g
}

// StartRun sets the run id for this session. It can only be called once.
func (g *Grid) StartRun(runID int64) error {
	if g.runSet {
		return ErrRunAlreadyStarted
	}

	g.runID = runID
	g.runSet = true

	g.logger.WithField("run_id", runID).Info("Run started")

	return nil
}

// RunID returns the current run id, or ErrRunNotStarted.
func (g *Grid) RunID() (int64, error) {
	if !g.runSet {
		return 0, ErrRunNotStarted
	}
	return g.runID, nil
}

// ListParticipantNodeIDs returns the node ids of all participants.
func (g *Grid) ListParticipantNodeIDs() []uint32 {
	return g.participants.IDs()
}

// BuildMessage creates a fresh envelope addressed to dstAddress, stamped with
// the current run id and the coordinator's node id. A zero ttl picks the
// configured default.
func (g *Grid) BuildMessage(payload []byte, messageType, dstAddress, groupID string, ttl time.Duration) (*envelope.Envelope, error) {
	if !g.runSet {
		return nil, ErrRunNotStarted
	}

	dstNodeID, err := g.participants.Resolve(dstAddress)
	if err != nil {
		return nil, err
	}

	if ttl <= 0 {
		ttl = g.conf.TTL
	}

	return &envelope.Envelope{
		RunID:      g.runID,
		SrcNodeID:  CoordinatorNodeID,
		DstNodeID:  dstNodeID,
		GroupID:    groupID,
		TTLSeconds: ttl.Seconds(),
		Type:       messageType,
		Payload:    payload,
	}, nil
}

// Validate checks that an envelope is well-formed for submission: it belongs
// to the current run, originates from this coordinator, and has not been
// through the transport before. A violation is a fatal local error.
func (g *Grid) Validate(env *envelope.Envelope) error {
	if !g.runSet {
		return ErrRunNotStarted
	}

	switch {
	case env.RunID != g.runID:
		return InvalidEnvelopeError{Reason: "run id does not match current run"}
	case env.SrcNodeID != CoordinatorNodeID:
		return InvalidEnvelopeError{Reason: "src node id is not the coordinator"}
	case env.MessageID != "":
		return InvalidEnvelopeError{Reason: "message id already assigned"}
	case env.ReplyTo != "":
		return InvalidEnvelopeError{Reason: "reply_to set on a fresh request"}
	case env.TTLSeconds <= 0:
		return InvalidEnvelopeError{Reason: "ttl must be positive"}
	}

	return nil
}

// PushMessages validates and submits a batch of envelopes. It returns the
// pending correlation map: correlation id to destination.
//
// An invalid envelope or an unroutable destination aborts the whole batch;
// both are caller programming errors. A submission failure for an individual
// destination is logged and that destination dropped, so one unreachable
// participant does not sink the round.
func (g *Grid) PushMessages(msgs []*envelope.Envelope) (map[string]*participants.Participant, error) {
	pending := make(map[string]*participants.Participant)

	for _, msg := range msgs {
		if err := g.Validate(msg); err != nil {
			return nil, err
		}

		dest, err := g.participants.Reverse(msg.DstNodeID)
		if err != nil {
			return nil, err
		}

		correlationID, err := g.adapter.Submit(msg, dest)
		if err != nil {
			g.logger.WithFields(logrus.Fields{
				"dest":  dest.Address,
				"error": err,
			}).Error("Failed to submit message, dropping destination")
			continue
		}

		pending[correlationID] = dest
	}

	g.logger.WithFields(logrus.Fields{
		"sent":    len(pending),
		"of":      len(msgs),
		"pending": correlationIDs(pending),
	}).Debug("Pushed messages")

	return pending, nil
}

// PullMessages polls the transport once for every pending correlation id.
// Resolved replies are returned and removed from pending; failed ids are
// removed without a result; ids with no response yet stay put.
func (g *Grid) PullMessages(pending map[string]*participants.Participant) map[string]*envelope.Envelope {
	resolved := make(map[string]*envelope.Envelope)

	for id, dest := range pending {
		reply, status := g.adapter.Resolve(id, dest)

		switch status {
		case transport.Resolved:
			resolved[id] = reply
			delete(pending, id)
		case transport.Failed:
			delete(pending, id)
		}
	}

	if len(resolved) > 0 {
		g.logger.WithField("count", len(resolved)).Debug("Pulled messages")
	}

	return resolved
}

// SendAndReceive submits a batch of envelopes and gathers replies until every
// correlation settles or the timeout elapses. A non-positive timeout means no
// deadline.
//
// The returned replies are matched by correlation id only; their order bears
// no relation to the input order. A short result set is a valid outcome: the
// caller compares its length against the destinations to detect a partial
// round.
func (g *Grid) SendAndReceive(msgs []*envelope.Envelope, timeout time.Duration) ([]*envelope.Envelope, error) {
	pending, err := g.PushMessages(msgs)
	if err != nil {
		return nil, err
	}

	if timeout > 0 {
		g.logger.WithField("timeout", timeout).Debug("Gathering replies with deadline")
	} else {
		g.logger.Debug("Gathering replies without deadline")
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	results := []*envelope.Envelope{}

	for {
		for _, reply := range g.PullMessages(pending) {
			results = append(results, reply)
		}

		if len(pending) == 0 {
			break
		}

		if timeout > 0 && !time.Now().Before(deadline) {
			g.logger.WithField("unanswered", len(pending)).Warning(
				"Timeout reached, returning partial results")
			break
		}

		time.Sleep(g.conf.PollInterval)
	}

	return results, nil
}

// SendStopSignal broadcasts a System envelope with a stop payload to every
// participant. It is fire-and-forget: no replies are awaited. The envelopes
// sent are returned for auditing.
//
// Call it exactly once at the end of a run, on the error path too, so
// participants are not left polling for work that will never come.
func (g *Grid) SendStopSignal(reason string) ([]*envelope.Envelope, error) {
	payload := &envelope.StopPayload{
		Action: envelope.StopAction,
		Reason: reason,
	}

	data, err := payload.Marshal()
	if err != nil {
		return nil, err
	}

	msgs := make([]*envelope.Envelope, 0, g.participants.Len())
	for _, p := range g.participants.Participants {
		msg, err := g.BuildMessage(data, envelope.TypeSystem, p.Address, StopGroupID, g.conf.StopTTL)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}

	if _, err := g.PushMessages(msgs); err != nil {
		return nil, err
	}

	g.logger.WithFields(logrus.Fields{
		"participants": g.participants.Len(),
		"reason":       reason,
	}).Info("Sent stop signal")

	return msgs, nil
}

func correlationIDs(pending map[string]*participants.Participant) []string {
	ids := make([]string, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	return ids
}
