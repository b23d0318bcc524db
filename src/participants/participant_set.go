package participants

// Set is the fixed group of participants addressed by one orchestrator
// instance. It is immutable after construction, which makes it safe for
// concurrent reads without locking.
type Set struct {
	Participants []*Participant `json:"participants"`
	ByAddress    map[string]*Participant
	ByID         map[uint32]*Participant
}

// NewSet builds a Set from a list of Participants. It fails if two entries
// share an address, or if two distinct addresses hash to the same node ID.
func NewSet(participants []*Participant) (*Set, error) {
	set := &Set{
		ByAddress: make(map[string]*Participant),
		ByID:      make(map[uint32]*Participant),
	}

	for _, p := range participants {
		if _, ok := set.ByAddress[p.Address]; ok {
			return nil, DuplicateIDError{ID: p.ID(), AddressA: p.Address, AddressB: p.Address}
		}
		if other, ok := set.ByID[p.ID()]; ok {
			return nil, DuplicateIDError{ID: p.ID(), AddressA: other.Address, AddressB: p.Address}
		}
		set.ByAddress[p.Address] = p
		set.ByID[p.ID()] = p
	}

	set.Participants = participants

	return set, nil
}

// NewSetFromAddresses builds a Set directly from a list of addresses.
func NewSetFromAddresses(addresses []string) (*Set, error) {
	participants := make([]*Participant, 0, len(addresses))
	for _, addr := range addresses {
		participants = append(participants, NewParticipant(addr))
	}
	return NewSet(participants)
}

// Resolve maps an address to its node ID.
func (s *Set) Resolve(address string) (uint32, error) {
	p, ok := s.ByAddress[address]
	if !ok {
		return 0, UnknownParticipantError{Address: address}
	}
	return p.ID(), nil
}

// Reverse maps a node ID back to its Participant.
func (s *Set) Reverse(id uint32) (*Participant, error) {
	p, ok := s.ByID[id]
	if !ok {
		return nil, UnknownNodeError{ID: id}
	}
	return p, nil
}

// IDs returns the node IDs of all participants.
func (s *Set) IDs() []uint32 {
	res := []uint32{}

	for _, p := range s.Participants {
		res = append(res, p.ID())
	}

	return res
}

// Addresses returns the addresses of all participants.
func (s *Set) Addresses() []string {
	res := []string{}

	for _, p := range s.Participants {
		res = append(res, p.Address)
	}

	return res
}

// Len returns the number of participants in the Set.
func (s *Set) Len() int {
	return len(s.Participants)
}
