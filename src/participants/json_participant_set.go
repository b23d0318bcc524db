package participants

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"sync"

	"github.com/ugorji/go/codec"
)

const jsonParticipantSetPath = "participants.json"

// JSONParticipantSet provides participant persistence on disk in the form of
// a JSON file.
type JSONParticipantSet struct {
	l    sync.Mutex
	path string
}

// NewJSONParticipantSet creates a new JSONParticipantSet with reference to a
// base directory where the JSON file resides.
func NewJSONParticipantSet(base string) *JSONParticipantSet {
	return &JSONParticipantSet{
		path: filepath.Join(base, jsonParticipantSetPath),
	}
}

// ParticipantSet parses the underlying JSON file and returns the
// corresponding Set.
func (j *JSONParticipantSet) ParticipantSet() (*Set, error) {
	j.l.Lock()
	defer j.l.Unlock()

	buf, err := ioutil.ReadFile(j.path)
	if err != nil {
		return nil, err
	}

	var participants []*Participant

	jh := new(codec.JsonHandle)
	jh.Canonical = true
	dec := codec.NewDecoder(bytes.NewReader(buf), jh)
	if err := dec.Decode(&participants); err != nil {
		return nil, err
	}

	return NewSet(participants)
}

// Write persists a list of Participants to the JSON file.
func (j *JSONParticipantSet) Write(participants []*Participant) error {
	j.l.Lock()
	defer j.l.Unlock()

	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)
	if err := enc.Encode(participants); err != nil {
		return err
	}

	return ioutil.WriteFile(j.path, b.Bytes(), 0755)
}
