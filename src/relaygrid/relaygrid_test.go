package relaygrid

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/relaygrid/relaygrid/src/config"
	"github.com/relaygrid/relaygrid/src/crypto"
	"github.com/relaygrid/relaygrid/src/participants"
	"github.com/relaygrid/relaygrid/src/transport"
)

func testConfig(t *testing.T) *config.Config {
	dataDir, err := ioutil.TempDir("", "relaygrid_data")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dataDir) })

	relayDir, err := ioutil.TempDir("", "relaygrid_relay")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(relayDir) })

	conf := config.NewTestConfig(t, logrus.DebugLevel)
	conf.SetDataDir(dataDir)
	conf.RelayDir = relayDir
	conf.SelfAddress = "server@datasite.org"

	return conf
}

func writeParticipants(t *testing.T, conf *config.Config, addresses ...string) {
	list := make([]*participants.Participant, 0, len(addresses))
	for _, addr := range addresses {
		list = append(list, participants.NewParticipant(addr))
	}

	store := participants.NewJSONParticipantSet(conf.DataDir)
	if err := store.Write(list); err != nil {
		t.Fatalf("err: %v", err)
	}
}

func TestInitFileTransport(t *testing.T) {
	conf := testConfig(t)
	writeParticipants(t, conf, "alice@datasite.org", "bob@datasite.org")

	engine := NewRelayGrid(conf)
	if err := engine.Init(); err != nil {
		t.Fatalf("err: %v", err)
	}
	defer engine.Shutdown("test over")

	if engine.Participants.Len() != 2 {
		t.Fatalf("should have 2 participants, not %d", engine.Participants.Len())
	}
	if _, ok := engine.Transport.(*transport.FileTransport); !ok {
		t.Fatalf("transport should be a FileTransport, not %T", engine.Transport)
	}
	if engine.Grid == nil {
		t.Fatal("grid should be wired")
	}

	// Init generated a fresh key at the default location
	if _, err := os.Stat(conf.Keyfile()); err != nil {
		t.Fatalf("keyfile not created: %v", err)
	}
}

func TestInitReusesKey(t *testing.T) {
	conf := testConfig(t)
	writeParticipants(t, conf, "alice@datasite.org")

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if err := crypto.NewSimpleKeyfile(conf.Keyfile()).WriteKey(key); err != nil {
		t.Fatalf("err: %v", err)
	}

	engine := NewRelayGrid(conf)
	if err := engine.Init(); err != nil {
		t.Fatalf("err: %v", err)
	}
	defer engine.Shutdown("test over")

	read, err := crypto.NewSimpleKeyfile(conf.Keyfile()).ReadKey()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !read.PubKey().IsEqual(key.PubKey()) {
		t.Fatal("Init should reuse the existing key, not overwrite it")
	}
}

func TestInitNoEncryption(t *testing.T) {
	conf := testConfig(t)
	conf.NoEncryption = true
	writeParticipants(t, conf, "alice@datasite.org")

	engine := NewRelayGrid(conf)
	if err := engine.Init(); err != nil {
		t.Fatalf("err: %v", err)
	}
	defer engine.Shutdown("test over")

	if engine.Crypto != nil {
		t.Fatal("crypto should be nil with encryption disabled")
	}
	if _, err := os.Stat(conf.Keyfile()); !os.IsNotExist(err) {
		t.Fatal("no keyfile should be created with encryption disabled")
	}
}

func TestInitMissingParticipants(t *testing.T) {
	conf := testConfig(t)

	engine := NewRelayGrid(conf)
	if err := engine.Init(); err == nil {
		t.Fatal("Init should fail without participants.json")
	}
}

func TestInitMissingRelayDir(t *testing.T) {
	conf := testConfig(t)
	conf.RelayDir = ""
	writeParticipants(t, conf, "alice@datasite.org")

	engine := NewRelayGrid(conf)
	if err := engine.Init(); err == nil {
		t.Fatal("Init should fail without a relay dir")
	}
}

func TestShutdownBroadcastsStop(t *testing.T) {
	conf := testConfig(t)
	writeParticipants(t, conf, "alice@datasite.org")

	engine := NewRelayGrid(conf)
	if err := engine.Init(); err != nil {
		t.Fatalf("err: %v", err)
	}

	if err := engine.Grid.StartRun(time.Now().Unix()); err != nil {
		t.Fatalf("err: %v", err)
	}

	engine.Shutdown("round complete")

	// the stop envelope landed in alice's inbox on the relay
	inbox := filepath.Join(conf.RelayDir, "alice@datasite.org", "app_data",
		conf.AppName, "rpc", "messages", conf.SelfAddress)

	entries, err := ioutil.ReadDir(inbox)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	requests := 0
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".request" {
			requests++
		}
	}
	if requests != 1 {
		t.Fatalf("alice should have 1 request file, not %d", requests)
	}
}
