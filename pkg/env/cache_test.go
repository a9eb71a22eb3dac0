package env

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20poly1305"
)

func testFingerprint(seed string) []byte {
	h := blake3.New()
	h.Write([]byte(seed))
	return h.Sum(nil)
}

// setTestEncryptionKey installs a valid-length random key under
// EnvCacheKeyVar for the duration of the test.
func setTestEncryptionKey(t *testing.T) {
	t.Helper()
	key := make([]byte, chacha20poly1305.KeySize)
	for i := range key {
		key[i] = byte(i + 1)
	}
	t.Setenv(EnvCacheKeyVar, base64.StdEncoding.EncodeToString(key))
}

func TestCacheStoreThenLoadRoundTrips(t *testing.T) {
	setTestEncryptionKey(t)
	c := &Cache{Path: filepath.Join(t.TempDir(), "env-cache"), TTL: time.Hour}
	fp := testFingerprint("config-a")
	want := Result{Env: map[string]string{"FOO": "bar"}, Path: []string{"/usr/bin"}}

	if err := c.Store(fp, want, time.Now()); err != nil {
		t.Fatalf("store: %v", err)
	}
	got, ok := c.Load(fp)
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if got.Env["FOO"] != "bar" {
		t.Fatalf("expected round-tripped env, got %+v", got)
	}
}

func TestCacheLoadMissesOnFingerprintMismatch(t *testing.T) {
	setTestEncryptionKey(t)
	c := &Cache{Path: filepath.Join(t.TempDir(), "env-cache"), TTL: time.Hour}
	if err := c.Store(testFingerprint("config-a"), Result{Env: map[string]string{"A": "1"}}, time.Now()); err != nil {
		t.Fatalf("store: %v", err)
	}
	_, ok := c.Load(testFingerprint("config-b"))
	if ok {
		t.Fatalf("expected a miss when the fingerprint no longer matches")
	}
}

func TestCacheLoadMissesOnExpiredTTL(t *testing.T) {
	setTestEncryptionKey(t)
	c := &Cache{Path: filepath.Join(t.TempDir(), "env-cache"), TTL: time.Millisecond}
	fp := testFingerprint("config-a")
	if err := c.Store(fp, Result{Env: map[string]string{"A": "1"}}, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("store: %v", err)
	}
	_, ok := c.Load(fp)
	if ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestCacheLoadMissesOnMissingFile(t *testing.T) {
	setTestEncryptionKey(t)
	c := &Cache{Path: filepath.Join(t.TempDir(), "does-not-exist"), TTL: time.Hour}
	_, ok := c.Load(testFingerprint("config-a"))
	if ok {
		t.Fatalf("expected a miss for a missing cache file")
	}
}

func TestCacheLoadMissesWithoutEncryptionKeyEvenIfEntryExists(t *testing.T) {
	setTestEncryptionKey(t)
	c := &Cache{Path: filepath.Join(t.TempDir(), "env-cache"), TTL: time.Hour}
	fp := testFingerprint("config-a")
	if err := c.Store(fp, Result{Env: map[string]string{"A": "1"}}, time.Now()); err != nil {
		t.Fatalf("store: %v", err)
	}

	t.Setenv(EnvCacheKeyVar, "")
	_, ok := c.Load(fp)
	if ok {
		t.Fatalf("expected a miss once the encryption key env var is unset")
	}
}

func TestCacheStoreIsANoOpWithoutEncryptionKey(t *testing.T) {
	t.Setenv(EnvCacheKeyVar, "")
	c := &Cache{Path: filepath.Join(t.TempDir(), "env-cache"), TTL: time.Hour}
	if err := c.Store(testFingerprint("config-a"), Result{Env: map[string]string{"A": "1"}}, time.Now()); err != nil {
		t.Fatalf("expected Store to silently skip, got error: %v", err)
	}
	if _, err := os.Stat(c.Path); !os.IsNotExist(err) {
		t.Fatalf("expected no cache file to be written, stat err: %v", err)
	}
}

func TestEncryptionKeyRejectsWrongLength(t *testing.T) {
	t.Setenv(EnvCacheKeyVar, base64.StdEncoding.EncodeToString([]byte("too-short")))
	if _, ok := EncryptionKey(); ok {
		t.Fatalf("expected a too-short key to be rejected")
	}
}

func TestEncryptionKeyAbsentByDefault(t *testing.T) {
	t.Setenv(EnvCacheKeyVar, "")
	if _, ok := EncryptionKey(); ok {
		t.Fatalf("expected no encryption key when the env var is unset")
	}
}
