package transport

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	requestSuffix  = ".request"
	responseSuffix = ".response"
)

// FileTransport implements the Transport interface on top of a synced
// directory tree (file sync services, network mounts). It writes request
// files under the destination's inbox and polls for response files written
// back next to them.
//
// Directory structure:
//
//	{root}/{dest}/app_data/{app}/rpc/messages/{self}/{id}.request
//	{root}/{dest}/app_data/{app}/rpc/messages/{self}/{id}.response
//
// The layout is the interoperability contract with the participant side; do
// not change it without changing the participants.
type FileTransport struct {
	l       sync.Mutex
	root    string
	self    string
	app     string
	pending map[string]string // correlation id => response path
	logger  *logrus.Entry
}

// NewFileTransport creates a FileTransport rooted at a synced directory.
// self is the coordinator's own address; it names the sender directory on the
// participant side.
func NewFileTransport(root, self, app string, logger *logrus.Entry) *FileTransport {
	return &FileTransport{
		root:    root,
		self:    self,
		app:     app,
		pending: make(map[string]string),
		logger:  logger.WithField("component", "file-transport"),
	}
}

// Put implements the Transport interface. The request file appears atomically
// so the sync layer never ships a half-written blob.
func (t *FileTransport) Put(dest string, correlationID string, data []byte) error {
	dir := filepath.Join(t.root, dest, "app_data", t.app, "rpc", "messages", t.self)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	requestPath := filepath.Join(dir, correlationID+requestSuffix)

	if err := writeFileAtomic(requestPath, data, 0644); err != nil {
		return err
	}

	t.l.Lock()
	t.pending[correlationID] = filepath.Join(dir, correlationID+responseSuffix)
	t.l.Unlock()

	t.logger.WithFields(logrus.Fields{
		"dest":           dest,
		"correlation_id": correlationID,
	}).Debug("wrote request file")

	return nil
}

// Get implements the Transport interface.
func (t *FileTransport) Get(correlationID string) ([]byte, bool, error) {
	t.l.Lock()
	responsePath, ok := t.pending[correlationID]
	t.l.Unlock()

	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownCorrelation, correlationID)
	}

	data, err := ioutil.ReadFile(responsePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return data, true, nil
}

// Remove deletes the request and response files of a settled correlation id.
// Callers may use it to keep the synced tree from growing without bound.
func (t *FileTransport) Remove(correlationID string) {
	t.l.Lock()
	responsePath, ok := t.pending[correlationID]
	delete(t.pending, correlationID)
	t.l.Unlock()

	if !ok {
		return
	}

	requestPath := responsePath[:len(responsePath)-len(responseSuffix)] + requestSuffix
	os.Remove(requestPath)
	os.Remove(responsePath)
}

// Close implements the Transport interface. Pending correlation ids are
// dropped; files already synced stay where they are.
func (t *FileTransport) Close() error {
	t.l.Lock()
	defer t.l.Unlock()
	t.pending = make(map[string]string)
	return nil
}

// writeFileAtomic writes data to a temporary file in the target directory and
// renames it into place, so readers and the sync layer never observe a
// partial file.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir, name := filepath.Split(filename)

	tmpfile, err := ioutil.TempFile(dir, name+"-*.tmp")
	if err != nil {
		return err
	}

	tmpname := tmpfile.Name()
	defer func() {
		tmpfile.Close()
		os.Remove(tmpname)
	}()

	if _, err := tmpfile.Write(data); err != nil {
		return err
	}

	if err := tmpfile.Chmod(perm); err != nil {
		return err
	}

	if err := tmpfile.Sync(); err != nil {
		return err
	}

	if err := tmpfile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpname, filename)
}
