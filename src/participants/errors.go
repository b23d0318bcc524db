package participants

import "fmt"

// UnknownParticipantError is returned when an address does not belong to the
// set. It indicates a caller programming error and should not be retried.
type UnknownParticipantError struct {
	Address string
}

func (e UnknownParticipantError) Error() string {
	return fmt.Sprintf("unknown participant address: %s", e.Address)
}

// UnknownNodeError is returned when a node ID does not belong to the set.
type UnknownNodeError struct {
	ID uint32
}

func (e UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node id: %d", e.ID)
}

// DuplicateIDError is returned at construction when two distinct addresses
// hash to the same node ID. The set refuses to form rather than silently
// misrouting messages between the two.
type DuplicateIDError struct {
	ID       uint32
	AddressA string
	AddressB string
}

func (e DuplicateIDError) Error() string {
	return fmt.Sprintf("node id collision: %d maps to both %s and %s",
		e.ID, e.AddressA, e.AddressB)
}
