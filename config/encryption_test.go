package config

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh"
)

// writeTestSSHKey generates an unencrypted ed25519 private key in OpenSSH
// format and returns its path.
func writeTestSSHKey(t *testing.T, dir string) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	block, err := ssh.MarshalPrivateKey(priv, "quark test key")
	if err != nil {
		t.Fatalf("failed to marshal key: %v", err)
	}

	keyPath := filepath.Join(dir, "test_ed25519")
	if err := os.WriteFile(keyPath, pem.EncodeToMemory(block), 0600); err != nil {
		t.Fatal(err)
	}
	return keyPath
}

func TestEncryptionManagerRoundTrip(t *testing.T) {
	keyPath := writeTestSSHKey(t, t.TempDir())

	mgr := NewEncryptionManager(EncryptionSSHKey, keyPath)
	if err := mgr.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	plaintext := []byte(`{"openai": "sk-round-trip"}`)
	ciphertext, err := mgr.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if bytes.Contains(ciphertext, []byte("sk-round-trip")) {
		t.Error("ciphertext contains the plaintext")
	}

	// ed25519 signatures are deterministic, so a fresh manager over the
	// same key derives the same AES key.
	mgr2 := NewEncryptionManager(EncryptionSSHKey, keyPath)
	if err := mgr2.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	decrypted, err := mgr2.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("Decrypt = %q, want %q", decrypted, plaintext)
	}
}

func TestEncryptionManagerDecryptWrongKey(t *testing.T) {
	dir := t.TempDir()
	mgr := NewEncryptionManager(EncryptionSSHKey, writeTestSSHKey(t, dir))
	if err := mgr.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	ciphertext, err := mgr.Encrypt([]byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	otherDir := t.TempDir()
	other := NewEncryptionManager(EncryptionSSHKey, writeTestSSHKey(t, otherDir))
	if err := other.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if _, err := other.Decrypt(ciphertext); err == nil {
		t.Error("Decrypt with a different key succeeded, want error")
	}
}

func TestCredentialStoreSSHEncryptedRoundTrip(t *testing.T) {
	dataDir := t.TempDir()
	keyPath := writeTestSSHKey(t, dataDir)

	store := NewCredentialStore(SecuritySSHKey, keyPath)
	if err := store.Set("openai", "sk-ssh-test"); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(dataDir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The on-disk blob must not leak the credential in the clear
	raw, err := os.ReadFile(filepath.Join(dataDir, "credentials.enc"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("sk-ssh-test")) {
		t.Error("credentials.enc contains the API key in plain text")
	}

	reloaded := NewCredentialStore(SecuritySSHKey, keyPath)
	if err := reloaded.Load(dataDir); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := reloaded.Get("openai"); got != "sk-ssh-test" {
		t.Errorf("Get(openai) = %q, want sk-ssh-test", got)
	}
}
