// Package secret implements the age/SOPS-compatible decryption adapter
// consumed by the Environment Composer's encrypted File directives and by
// tool-stub loading.
package secret

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
)

// Decrypter decrypts age-armored ciphertext using one or more configured
// identities (private keys). It implements env.SecretDecrypter.
type Decrypter struct {
	identities []age.Identity
}

// NewDecrypter loads identities from the given age identity files (each in
// the plain "AGE-SECRET-KEY-..." format age-keygen produces).
func NewDecrypter(identityFiles ...string) (*Decrypter, error) {
	var all []age.Identity
	for _, path := range identityFiles {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open identity file %s: %w", path, err)
		}
		ids, err := age.ParseIdentities(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parse identity file %s: %w", path, err)
		}
		all = append(all, ids...)
	}
	return &Decrypter{identities: all}, nil
}

// NewDecrypterFromKeys builds a Decrypter directly from identity strings,
// e.g. sourced from the MISE_AGE_KEY / SOPS_AGE_KEY environment variable.
func NewDecrypterFromKeys(keys ...string) (*Decrypter, error) {
	ids, err := age.ParseIdentities(strings.NewReader(strings.Join(keys, "\n")))
	if err != nil {
		return nil, fmt.Errorf("parse age identities: %w", err)
	}
	return &Decrypter{identities: ids}, nil
}

// Decrypt implements env.SecretDecrypter: data is age-armored ciphertext
// (§4.4's sops-tagged File directive payload), returned as cleartext bytes.
func (d *Decrypter) Decrypt(data []byte) ([]byte, error) {
	if len(d.identities) == 0 {
		return nil, fmt.Errorf("no age identities configured")
	}
	r, err := age.Decrypt(bytes.NewReader(data), d.identities...)
	if err != nil {
		return nil, fmt.Errorf("age decrypt: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read decrypted payload: %w", err)
	}
	return out, nil
}

// Recipients are the public-key counterparts used to encrypt a secret file
// for one or more identities (the write-side of the age adapter, used by
// `mvx secret edit`-style tooling built on top of this package).
func Recipients(publicKeys ...string) ([]age.Recipient, error) {
	out := make([]age.Recipient, 0, len(publicKeys))
	for _, pk := range publicKeys {
		r, err := age.ParseX25519Recipient(pk)
		if err != nil {
			return nil, fmt.Errorf("parse recipient %q: %w", pk, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Encrypt seals plaintext to every recipient, producing age-armored
// ciphertext ready to be written back to a secrets file.
func Encrypt(plaintext []byte, recipients ...age.Recipient) ([]byte, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipients...)
	if err != nil {
		return nil, fmt.Errorf("age encrypt: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("write plaintext: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close age writer: %w", err)
	}
	return buf.Bytes(), nil
}
