package envelope

import (
	"bytes"

	"github.com/ugorji/go/codec"
)

// Message types understood by participants. Train, Evaluate and Query carry
// round work; System carries control messages such as the stop signal.
const (
	TypeTrain    = "train"
	TypeEvaluate = "evaluate"
	TypeQuery    = "query"
	TypeSystem   = "system"
)

// ErrorInfo is set on a reply when the participant failed to process the
// request and returned an application-level error instead of a payload.
type ErrorInfo struct {
	Code   int    `json:"code"`
	Reason string `json:"reason"`
}

// Envelope is a routed message between the coordinator and one participant.
// The Payload is opaque to this layer; producing and consuming it is the
// compute logic's business.
type Envelope struct {
	// RunID ties the envelope to one run. All envelopes of a run carry the
	// same value.
	RunID int64 `json:"run_id"`

	// MessageID is empty until the transport assigns one. A freshly built
	// envelope must have it empty.
	MessageID string `json:"message_id"`

	SrcNodeID uint32 `json:"src_node_id"`
	DstNodeID uint32 `json:"dst_node_id"`

	// ReplyTo is the MessageID this envelope replies to. Empty for fresh
	// requests.
	ReplyTo string `json:"reply_to"`

	// GroupID is a caller-defined correlation tag, typically the round number.
	GroupID string `json:"group_id"`

	// TTLSeconds must be > 0.
	TTLSeconds float64 `json:"ttl"`

	Type    string `json:"type"`
	Payload []byte `json:"payload"`

	Err *ErrorInfo `json:"error,omitempty"`
}

// HasError reports whether the envelope carries an application-level error
// instead of a usable payload.
func (e *Envelope) HasError() bool {
	return e.Err != nil
}

// Marshal - canonical json encoding of Envelope
func (e *Envelope) Marshal() ([]byte, error) {
	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)

	if err := enc.Encode(e); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Unmarshal ...
func (e *Envelope) Unmarshal(data []byte) error {
	b := bytes.NewBuffer(data)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	dec := codec.NewDecoder(b, jh)

	if err := dec.Decode(e); err != nil {
		return err
	}

	return nil
}
