package secret

import (
	"testing"

	"filippo.io/age"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("generate identity: %v", err)
	}
	ciphertext, err := Encrypt([]byte("db_password=hunter2"), identity.Recipient())
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	dec := &Decrypter{identities: []age.Identity{identity}}
	plain, err := dec.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if string(plain) != "db_password=hunter2" {
		t.Fatalf("got %q", plain)
	}
}

func TestDecryptWithNoIdentitiesErrors(t *testing.T) {
	dec := &Decrypter{}
	if _, err := dec.Decrypt([]byte("anything")); err == nil {
		t.Fatalf("expected an error with no identities configured")
	}
}
