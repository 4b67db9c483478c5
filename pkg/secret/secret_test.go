package secret

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testBox(t *testing.T) *Box {
	t.Helper()
	key := bytes.Repeat([]byte{0x42}, KeySize)
	b, err := NewBox(key)
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	return b
}

func TestSealOpenRoundTrip(t *testing.T) {
	b := testBox(t)
	pt := []byte("session record payload")
	blob, err := b.Seal(pt)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Contains(blob, pt) {
		t.Error("plaintext visible in sealed blob")
	}
	got, err := b.Open(blob)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, pt) {
		t.Errorf("round trip: want %q, got %q", pt, got)
	}
}

func TestOpenRejectsTampering(t *testing.T) {
	b := testBox(t)
	blob, err := b.Seal([]byte("payload"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	blob[len(blob)-1] ^= 0xff
	if _, err := b.Open(blob); !errors.Is(err, ErrDecrypt) {
		t.Errorf("tampered blob: want ErrDecrypt, got %v", err)
	}
}

func TestOpenRejectsTruncated(t *testing.T) {
	b := testBox(t)
	if _, err := b.Open([]byte{1, 2, 3}); !errors.Is(err, ErrDecrypt) {
		t.Errorf("truncated blob: want ErrDecrypt, got %v", err)
	}
}

func TestOpenWrongKey(t *testing.T) {
	b := testBox(t)
	blob, _ := b.Seal([]byte("payload"))

	other, err := NewBox(bytes.Repeat([]byte{0x43}, KeySize))
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	if _, err := other.Open(blob); !errors.Is(err, ErrDecrypt) {
		t.Errorf("wrong key: want ErrDecrypt, got %v", err)
	}
}

func TestNewBoxRejectsBadKeySize(t *testing.T) {
	if _, err := NewBox([]byte("short")); err == nil {
		t.Fatal("expected error for short master key")
	}
}

func TestLoadOrCreateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", ".master")

	k1, err := LoadOrCreateKey(path)
	if err != nil {
		t.Fatalf("LoadOrCreateKey (create): %v", err)
	}
	if len(k1) != KeySize {
		t.Fatalf("key size: want %d, got %d", KeySize, len(k1))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("key file mode: want 0600, got %o", info.Mode().Perm())
	}

	k2, err := LoadOrCreateKey(path)
	if err != nil {
		t.Fatalf("LoadOrCreateKey (load): %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("second load returned a different key")
	}
}
