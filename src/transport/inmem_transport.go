package transport

import (
	"sync"
)

// Responder is invoked with the request blob addressed to a destination and
// returns the response blob, or nil for no response.
type Responder func(request []byte) []byte

// InmemTransport implements the Transport interface, to allow the
// orchestrator to be tested in-memory, or run against in-process
// participants, without going over a real relay.
type InmemTransport struct {
	sync.RWMutex
	requests   map[string][]byte
	responses  map[string][]byte
	responders map[string]Responder
}

// NewInmemTransport is used to initialize a new transport.
func NewInmemTransport() *InmemTransport {
	return &InmemTransport{
		requests:   make(map[string][]byte),
		responses:  make(map[string][]byte),
		responders: make(map[string]Responder),
	}
}

// Put implements the Transport interface. If a Responder is registered for
// the destination it runs asynchronously, like a remote participant would.
func (i *InmemTransport) Put(dest string, correlationID string, data []byte) error {
	i.Lock()
	i.requests[correlationID] = data
	responder, ok := i.responders[dest]
	i.Unlock()

	if ok {
		go func() {
			if resp := responder(data); resp != nil {
				i.SetResponse(correlationID, resp)
			}
		}()
	}

	return nil
}

// Get implements the Transport interface.
func (i *InmemTransport) Get(correlationID string) ([]byte, bool, error) {
	i.RLock()
	defer i.RUnlock()

	data, ok := i.responses[correlationID]

	return data, ok, nil
}

// Respond registers a Responder for a destination. This allows local routing
// of requests to a simulated participant.
func (i *InmemTransport) Respond(dest string, responder Responder) {
	i.Lock()
	defer i.Unlock()
	i.responders[dest] = responder
}

// SetResponse stores a response blob under a correlation id, playing the part
// of the remote participant.
func (i *InmemTransport) SetResponse(correlationID string, data []byte) {
	i.Lock()
	defer i.Unlock()
	i.responses[correlationID] = data
}

// Request returns the stored request blob for a correlation id.
func (i *InmemTransport) Request(correlationID string) ([]byte, bool) {
	i.RLock()
	defer i.RUnlock()
	data, ok := i.requests[correlationID]
	return data, ok
}

// Requests returns all stored request blobs keyed by correlation id.
func (i *InmemTransport) Requests() map[string][]byte {
	i.RLock()
	defer i.RUnlock()
	res := make(map[string][]byte, len(i.requests))
	for k, v := range i.requests {
		res[k] = v
	}
	return res
}

// Close is used to permanently disable the transport.
func (i *InmemTransport) Close() error {
	i.Lock()
	defer i.Unlock()
	i.requests = make(map[string][]byte)
	i.responses = make(map[string][]byte)
	i.responders = make(map[string]Responder)
	return nil
}
