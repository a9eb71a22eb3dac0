package env

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/gnodet/mvx/pkg/mvxerr"
)

// EnvCacheKeyVar is the environment variable carrying the cache's actual
// AEAD encryption key, base64-encoded (§4.4.2). It is deliberately separate
// from FingerprintKey below: the fingerprint is a non-secret digest of the
// inputs a cache hit depends on, used only to name and validate a cache
// entry, while this is the real secret the payload is sealed under. No key
// in the environment means the cache is skipped entirely, for both Load
// and Store.
const EnvCacheKeyVar = "__MISE_ENV_CACHE_KEY"

// cacheEnvelope is the on-disk, msgpack-encoded payload (§4.4.2): the
// composed Result plus the fingerprint that must still match for the
// cache to be considered fresh.
type cacheEnvelope struct {
	StoredAt    int64
	Fingerprint []byte
	Result      Result
}

// FingerprintKey digests everything a cache hit depends on being
// unchanged: the config file set's combined mtimes and the resolved
// toolset's concrete versions, using blake3 (chosen over a generic hash for
// its speed on this noisy, frequently-recomputed lookup path). It carries
// no secret material — it is the cache entry's name and freshness check,
// never its encryption key.
func FingerprintKey(configPaths []string, toolsetFingerprint string) []byte {
	h := blake3.New()
	for _, p := range configPaths {
		info, err := os.Stat(p)
		if err != nil {
			continue // a missing watched file invalidates nothing by itself
		}
		fmt.Fprintf(h, "%s:%d\n", p, info.ModTime().UnixNano())
	}
	fmt.Fprintf(h, "toolset:%s\n", toolsetFingerprint)
	return h.Sum(nil)
}

// EncryptionKey reads and decodes EnvCacheKeyVar. ok is false whenever the
// variable is unset, not valid base64, or does not decode to exactly
// chacha20poly1305.KeySize bytes — any of which means "no cache today",
// not an error.
func EncryptionKey() (key []byte, ok bool) {
	raw := os.Getenv(EnvCacheKeyVar)
	if raw == "" {
		return nil, false
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) != chacha20poly1305.KeySize {
		return nil, false
	}
	return decoded, true
}

// Cache is the encrypted, file-locked disk cache for one composed
// environment result, looked up by FingerprintKey and sealed under
// EncryptionKey. Disabled entirely (§4.4's "has_scripts/has_modules
// disables caching") by the caller simply not calling Store/Load when
// either flag is set, and disabled silently whenever EncryptionKey is
// absent.
type Cache struct {
	Path string
	TTL  time.Duration
}

type cipherAEAD interface {
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	NonceSize() int
}

// Load returns the cached Result if present, fresh (within TTL), matching
// fingerprint, and decryptable under the current EncryptionKey. Any
// failure (no key configured, missing file, stale TTL, fingerprint
// mismatch, corrupt payload, auth failure) is reported as a cache miss,
// not an error — a cache is never allowed to fail a composition, only
// skip it. A file that is too short, fails to decrypt, or fails to decode
// is also deleted.
func (c *Cache) Load(fingerprint []byte) (Result, bool) {
	key, ok := EncryptionKey()
	if !ok {
		return Result{}, false
	}

	guard := flock.New(c.Path + ".flock")
	_ = guard.RLock()
	defer guard.Unlock()

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return Result{}, false
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return Result{}, false
	}
	ns := aead.NonceSize()
	if len(data) < ns {
		_ = os.Remove(c.Path)
		return Result{}, false
	}
	nonce, ciphertext := data[:ns], data[ns:]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		_ = os.Remove(c.Path)
		return Result{}, false
	}
	var env cacheEnvelope
	if err := msgpack.Unmarshal(plain, &env); err != nil {
		_ = os.Remove(c.Path)
		return Result{}, false
	}
	if !bytesEqual(env.Fingerprint, fingerprint) {
		return Result{}, false
	}
	if c.TTL > 0 && time.Since(time.Unix(0, env.StoredAt)) > c.TTL {
		return Result{}, false
	}
	return env.Result, true
}

// Store encrypts and atomically persists result under fingerprint. With no
// EncryptionKey configured this is a silent no-op (§4.4.2: a missing key
// env var skips the cache), not an error. Other failures are reported as
// typed CacheCorrupt so a caller can log at debug level without failing
// the run that computed result in the first place.
func (c *Cache) Store(fingerprint []byte, result Result, now time.Time) error {
	key, ok := EncryptionKey()
	if !ok {
		return nil
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return mvxerr.CacheCorrupt(err)
	}
	payload, err := msgpack.Marshal(cacheEnvelope{StoredAt: now.UnixNano(), Fingerprint: fingerprint, Result: result})
	if err != nil {
		return mvxerr.CacheCorrupt(err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return mvxerr.CacheCorrupt(err)
	}
	sealed := aead.Seal(nonce, nonce, payload, nil)

	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return mvxerr.CacheCorrupt(err)
	}
	guard := flock.New(c.Path + ".flock")
	if err := guard.Lock(); err != nil {
		return mvxerr.CacheCorrupt(err)
	}
	defer guard.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(c.Path), ".mvx-envcache-*")
	if err != nil {
		return mvxerr.CacheCorrupt(err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return mvxerr.CacheCorrupt(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return mvxerr.CacheCorrupt(err)
	}
	return os.Rename(tmpPath, c.Path)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
