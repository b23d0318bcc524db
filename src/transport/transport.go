// Package transport wraps the external store-and-forward message transport.
//
// A Transport moves opaque blobs: the coordinator writes a request for a
// destination, keyed by a correlation id, and later polls for a response
// under the same id. Delivery guarantees, sync and durability belong to the
// transport; this package only adapts it to the orchestrator.
package transport

import "errors"

// ErrUnknownCorrelation marks a correlation id the transport has no record
// of. It is permanent: retrying the same id will never produce a response.
var ErrUnknownCorrelation = errors.New("unknown correlation id")

// Transport provides an interface for store-and-forward transports to allow
// the orchestrator to exchange messages with participants it cannot reach
// directly.
type Transport interface {

	// Put writes a request blob for the named destination, keyed by
	// correlationID.
	Put(dest string, correlationID string, data []byte) error

	// Get reads the response blob for correlationID. The second return value
	// is false while no response has arrived; that is not an error. An id the
	// transport cannot ever answer is reported by wrapping
	// ErrUnknownCorrelation.
	Get(correlationID string) ([]byte, bool, error)

	// Close permanently closes the transport, freeing any associated
	// resources.
	Close() error
}
