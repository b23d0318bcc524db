package transport

import (
	"bytes"
	"testing"
	"time"
)

func TestInmemTransportPutGet(t *testing.T) {
	trans := NewInmemTransport()
	defer trans.Close()

	if err := trans.Put("alice@datasite.org", "corr-1", []byte("request")); err != nil {
		t.Fatalf("err: %v", err)
	}

	// No response yet
	if _, ok, err := trans.Get("corr-1"); err != nil || ok {
		t.Fatalf("Get should be absent: ok=%v err=%v", ok, err)
	}

	trans.SetResponse("corr-1", []byte("response"))

	data, ok, err := trans.Get("corr-1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !ok {
		t.Fatal("response should be present")
	}
	if !bytes.Equal(data, []byte("response")) {
		t.Fatalf("data: %s", data)
	}

	// Re-reads keep returning the same bytes
	again, ok, _ := trans.Get("corr-1")
	if !ok || !bytes.Equal(again, data) {
		t.Fatal("repeated Get should return the same bytes")
	}
}

func TestInmemTransportResponder(t *testing.T) {
	trans := NewInmemTransport()
	defer trans.Close()

	trans.Respond("alice@datasite.org", func(request []byte) []byte {
		return append([]byte("echo:"), request...)
	})

	if err := trans.Put("alice@datasite.org", "corr-2", []byte("hello")); err != nil {
		t.Fatalf("err: %v", err)
	}

	// The responder runs asynchronously
	deadline := time.Now().Add(time.Second)
	for {
		data, ok, err := trans.Get("corr-2")
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if ok {
			if !bytes.Equal(data, []byte("echo:hello")) {
				t.Fatalf("data: %s", data)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("responder never answered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
