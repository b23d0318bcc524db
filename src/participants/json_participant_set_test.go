package participants

import (
	"io/ioutil"
	"os"
	"testing"
)

func TestJSONParticipantSet(t *testing.T) {
	dir, err := ioutil.TempDir("", "relaygrid")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	defer os.RemoveAll(dir)

	store := NewJSONParticipantSet(dir)

	// Try a read, should get nothing
	if _, err := store.ParticipantSet(); err == nil {
		t.Fatal("store.ParticipantSet() should generate an error")
	}

	written := []*Participant{
		NewParticipant("alice@datasite.org"),
		NewParticipant("bob@datasite.org"),
		NewParticipant("carol@datasite.org"),
	}
	written[0].PubKeyHex = "02c3afc03bd3e65ebb2b6d27e04a4b278a6cdf25b3414f2f1e2a2b2fcb6b70777e"

	if err := store.Write(written); err != nil {
		t.Fatalf("err: %v", err)
	}

	// Try a read, should find 3 participants
	set, err := store.ParticipantSet()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("participants: %v", set.Participants)
	}

	for i, p := range set.Participants {
		if p.Address != written[i].Address {
			t.Fatalf("participants[%d] Address should be %s, not %s", i,
				written[i].Address, p.Address)
		}
		if p.ID() != written[i].ID() {
			t.Fatalf("participants[%d] ID should be %d, not %d", i,
				written[i].ID(), p.ID())
		}
	}

	if set.Participants[0].PubKeyHex != written[0].PubKeyHex {
		t.Fatalf("participants[0] PubKeyHex not preserved")
	}
}
