package participants

import (
	"testing"
)

func TestNodeIDDeterminism(t *testing.T) {
	addresses := []string{"alice@datasite.org", "bob@datasite.org", "carol@datasite.org"}

	set1, err := NewSetFromAddresses(addresses)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	set2, err := NewSetFromAddresses(addresses)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	for _, addr := range addresses {
		id1, err := set1.Resolve(addr)
		if err != nil {
			t.Fatalf("err: %v", err)
		}

		id2, err := set2.Resolve(addr)
		if err != nil {
			t.Fatalf("err: %v", err)
		}

		if id1 != id2 {
			t.Fatalf("%s resolved to %d and %d across instances", addr, id1, id2)
		}

		// repeated calls on the same instance
		again, _ := set1.Resolve(addr)
		if again != id1 {
			t.Fatalf("%s resolved to %d then %d on the same instance", addr, id1, again)
		}
	}
}

func TestResolveReverse(t *testing.T) {
	set, err := NewSetFromAddresses([]string{"alice@datasite.org", "bob@datasite.org"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	id, err := set.Resolve("alice@datasite.org")
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	p, err := set.Reverse(id)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p.Address != "alice@datasite.org" {
		t.Fatalf("Reverse(%d) should be alice@datasite.org, not %s", id, p.Address)
	}

	if _, err := set.Resolve("mallory@datasite.org"); err == nil {
		t.Fatal("Resolve of unknown address should fail")
	} else if _, ok := err.(UnknownParticipantError); !ok {
		t.Fatalf("expected UnknownParticipantError, got %T", err)
	}

	if _, err := set.Reverse(0xdeadbeef); err == nil {
		t.Fatal("Reverse of unknown id should fail")
	} else if _, ok := err.(UnknownNodeError); !ok {
		t.Fatalf("expected UnknownNodeError, got %T", err)
	}
}

func TestDuplicateAddress(t *testing.T) {
	_, err := NewSetFromAddresses([]string{"alice@datasite.org", "alice@datasite.org"})
	if err == nil {
		t.Fatal("duplicate address should be rejected")
	}
}

func TestIDCollision(t *testing.T) {
	// "costarring" and "liquid" are a known FNV-1a 32-bit collision pair.
	_, err := NewSetFromAddresses([]string{"costarring", "liquid"})
	if err == nil {
		t.Fatal("colliding addresses should be rejected")
	}
	if _, ok := err.(DuplicateIDError); !ok {
		t.Fatalf("expected DuplicateIDError, got %T", err)
	}
}

func TestSetAccessors(t *testing.T) {
	addresses := []string{"alice@datasite.org", "bob@datasite.org", "carol@datasite.org"}

	set, err := NewSetFromAddresses(addresses)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if set.Len() != 3 {
		t.Fatalf("Len should be 3, not %d", set.Len())
	}

	if len(set.IDs()) != 3 {
		t.Fatalf("IDs should have 3 entries, not %d", len(set.IDs()))
	}

	got := set.Addresses()
	for i, addr := range addresses {
		if got[i] != addr {
			t.Fatalf("Addresses[%d] should be %s, not %s", i, addr, got[i])
		}
	}
}
