package envelope

import (
	"bytes"

	"github.com/ugorji/go/codec"
)

// StopAction is the action field of a shutdown payload.
const StopAction = "stop"

// StopPayload is the body of the System envelope broadcast at the end of a
// run. Participants shut down when they receive it.
type StopPayload struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// Marshal - canonical json encoding of StopPayload
func (s *StopPayload) Marshal() ([]byte, error) {
	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)

	if err := enc.Encode(s); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Unmarshal ...
func (s *StopPayload) Unmarshal(data []byte) error {
	b := bytes.NewBuffer(data)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	dec := codec.NewDecoder(b, jh)

	if err := dec.Decode(s); err != nil {
		return err
	}

	return nil
}
