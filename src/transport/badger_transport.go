package transport

import (
	"fmt"

	"github.com/dgraph-io/badger"
)

const (
	requestPrefix  = "req"
	responsePrefix = "resp"
)

// BadgerTransport implements the Transport interface on a Badger database.
// It serves setups where coordinator and participants share a host or a
// mounted volume: requests and responses are keyed blobs, and Badger's
// transactions make concurrent submit/resolve from several orchestrator
// instances safe.
type BadgerTransport struct {
	db   *badger.DB
	path string
}

// NewBadgerTransport opens (or creates) a Badger database at path.
func NewBadgerTransport(path string) (*BadgerTransport, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = false
	opts.Logger = nil

	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &BadgerTransport{
		db:   handle,
		path: path,
	}, nil
}

func requestKey(dest, correlationID string) []byte {
	return []byte(fmt.Sprintf("%s/%s/%s", requestPrefix, dest, correlationID))
}

func responseKey(correlationID string) []byte {
	return []byte(fmt.Sprintf("%s/%s", responsePrefix, correlationID))
}

// Put implements the Transport interface. Requests are keyed by destination
// so the participant side can scan its own inbox by prefix.
func (t *BadgerTransport) Put(dest string, correlationID string, data []byte) error {
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Set(requestKey(dest, correlationID), data)
	})
}

// Get implements the Transport interface.
func (t *BadgerTransport) Get(correlationID string) ([]byte, bool, error) {
	var data []byte

	err := t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(responseKey(correlationID))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return data, true, nil
}

// SetResponse stores a response blob. It is the write half of the
// participant side of the relay.
func (t *BadgerTransport) SetResponse(correlationID string, data []byte) error {
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Set(responseKey(correlationID), data)
	})
}

// Requests returns the pending request blobs addressed to dest, keyed by
// correlation id. It is the read half of the participant side of the relay.
func (t *BadgerTransport) Requests(dest string) (map[string][]byte, error) {
	res := make(map[string][]byte)
	prefix := []byte(fmt.Sprintf("%s/%s/", requestPrefix, dest))

	err := t.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			res[string(item.Key()[len(prefix):])] = data
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return res, nil
}

// Close implements the Transport interface.
func (t *BadgerTransport) Close() error {
	return t.db.Close()
}
