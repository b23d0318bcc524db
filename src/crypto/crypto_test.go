package crypto

import (
	"bytes"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestECIESRoundTrip(t *testing.T) {
	serverKey, err := GenerateKey()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	aliceKey, err := GenerateKey()
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	// coordinator side: encrypt for alice
	server := NewECIES(serverKey)
	server.AddPublicKey("alice@datasite.org", aliceKey.PubKey())

	cipher, err := server.Encrypt([]byte("weights"), "alice@datasite.org")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if bytes.Equal(cipher, []byte("weights")) {
		t.Fatal("ciphertext should differ from plaintext")
	}

	// participant side: decrypt with alice's key
	alice := NewECIES(aliceKey)
	plain, err := alice.Decrypt(cipher, "server@datasite.org")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !bytes.Equal(plain, []byte("weights")) {
		t.Fatalf("plain: %s", plain)
	}
}

func TestECIESErrors(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	e := NewECIES(key)

	if _, err := e.Encrypt([]byte("x"), "stranger@datasite.org"); !errors.Is(err, ErrNoKey) {
		t.Fatalf("expected ErrNoKey, got %v", err)
	}

	if _, err := e.Encrypt([]byte("x"), ""); !errors.Is(err, ErrBadParam) {
		t.Fatalf("expected ErrBadParam, got %v", err)
	}
}

func TestSimpleKeyfile(t *testing.T) {
	dir, err := ioutil.TempDir("", "relaygrid")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "priv_key")
	keyfile := NewSimpleKeyfile(path)

	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if err := keyfile.WriteKey(key); err != nil {
		t.Fatalf("err: %v", err)
	}

	read, err := keyfile.ReadKey()
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if !bytes.Equal(read.Serialize(), key.Serialize()) {
		t.Fatal("key should round-trip through the file")
	}

	// file must be user-only
	if err := os.Chmod(path, 0644); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := keyfile.ReadKey(); err == nil {
		t.Fatal("ReadKey should reject group/other permissions")
	}
}
