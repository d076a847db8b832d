package auth

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"
)

func validAccount() *Account {
	return &Account{
		Username:  "tester",
		AuthToken: "abcdef1234567890",
		CSRFToken: "csrf1234567890ab",
		UserAgent: "TestAgent/1.0",
	}
}

func TestManagerStoreValidation(t *testing.T) {
	mock := NewMockStore()
	mgr := NewManagerWithStores(mock)

	tests := []struct {
		name    string
		account *Account
		wantErr bool
	}{
		{"valid", validAccount(), false},
		{"missing username", &Account{AuthToken: "a", CSRFToken: "b"}, true},
		{"missing auth token", &Account{Username: "u", CSRFToken: "b"}, true},
		{"missing csrf token", &Account{Username: "u", AuthToken: "a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mgr.Store(tt.account)
			if (err != nil) != tt.wantErr {
				t.Errorf("Store() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestManagerStoreSetsLastModified(t *testing.T) {
	mock := NewMockStore()
	mgr := NewManagerWithStores(mock)

	account := validAccount()
	if err := mgr.Store(account); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if account.LastModified.IsZero() {
		t.Error("Expected LastModified to be set")
	}
}

func TestManagerFallback(t *testing.T) {
	// First store always fails, second works.
	failing := NewMockStore()
	failing.StoreError = errors.New("keychain locked")
	failing.RetrieveError = errors.New("keychain locked")
	working := NewMockStore()

	mgr := NewManagerWithStores(failing, working)

	if err := mgr.Store(validAccount()); err != nil {
		t.Fatalf("Store() should fall back, got error: %v", err)
	}
	if working.Count() != 1 {
		t.Errorf("Expected account in fallback store, count = %d", working.Count())
	}

	account, err := mgr.Retrieve("tester")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if account.AuthToken != "abcdef1234567890" {
		t.Errorf("Unexpected auth token: %s", account.AuthToken)
	}
}

func TestManagerListPrefersNewest(t *testing.T) {
	older := NewMockStore()
	newer := NewMockStore()

	stale := validAccount()
	stale.UserAgent = "stale"
	stale.LastModified = time.Now().Add(-time.Hour)
	older.Store(stale)

	fresh := validAccount()
	fresh.UserAgent = "fresh"
	fresh.LastModified = time.Now()
	newer.Store(fresh)

	mgr := NewManagerWithStores(older, newer)

	accounts, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("Expected 1 deduplicated account, got %d", len(accounts))
	}
	if accounts[0].UserAgent != "fresh" {
		t.Errorf("Expected most recent account version, got %s", accounts[0].UserAgent)
	}
}

func TestManagerDelete(t *testing.T) {
	mock := NewMockStore()
	mgr := NewManagerWithStores(mock)

	mgr.Store(validAccount())
	if err := mgr.Delete("tester"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if mock.Exists("tester") {
		t.Error("Expected account to be deleted")
	}

	if err := mgr.Delete("ghost"); err == nil {
		t.Error("Expected error deleting unknown account")
	}
}

func TestEnvironmentStore(t *testing.T) {
	os.Setenv("XFOLLOWER_AUTH_TOKEN", "envtoken12345678")
	os.Setenv("XFOLLOWER_CSRF_TOKEN", "envcsrf123456789")
	defer func() {
		os.Unsetenv("XFOLLOWER_AUTH_TOKEN")
		os.Unsetenv("XFOLLOWER_CSRF_TOKEN")
	}()

	store := NewEnvironmentStore()

	account, err := store.Retrieve("")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if account.Username != "default" {
		t.Errorf("Expected default username, got %s", account.Username)
	}
	if account.AuthToken != "envtoken12345678" {
		t.Errorf("Unexpected auth token: %s", account.AuthToken)
	}

	if err := store.Store(account); err != ErrStoreUnavailable {
		t.Errorf("Expected ErrStoreUnavailable from Store, got %v", err)
	}
}

func TestEncryptedFileStore(t *testing.T) {
	tempDir := t.TempDir()
	os.Setenv("XFOLLOWER_PASSPHRASE", "test-passphrase")
	defer os.Unsetenv("XFOLLOWER_PASSPHRASE")

	store, err := NewEncryptedFileStore(tempDir + "/credentials.enc")
	if err != nil {
		t.Fatalf("NewEncryptedFileStore() error = %v", err)
	}

	account := validAccount()
	if err := store.Store(account); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	// Round trip through a second store instance with the same passphrase.
	store2, err := NewEncryptedFileStore(tempDir + "/credentials.enc")
	if err != nil {
		t.Fatalf("NewEncryptedFileStore() error = %v", err)
	}

	loaded, err := store2.Retrieve("tester")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if loaded.AuthToken != account.AuthToken {
		t.Errorf("Expected auth token %s, got %s", account.AuthToken, loaded.AuthToken)
	}

	// The file on disk must not contain the plaintext token.
	content, err := os.ReadFile(tempDir + "/credentials.enc")
	if err != nil {
		t.Fatalf("Failed to read encrypted file: %v", err)
	}
	if bytes.Contains(content, []byte(account.AuthToken)) {
		t.Error("Encrypted file contains plaintext auth token")
	}

	if err := store2.Delete("tester"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if store2.Exists("tester") {
		t.Error("Expected account to be deleted")
	}
}

func TestSanitizeAccount(t *testing.T) {
	account := validAccount()
	sanitized := SanitizeAccount(account)

	if sanitized.AuthToken == account.AuthToken {
		t.Error("Expected auth token to be masked")
	}
	if sanitized.CSRFToken == account.CSRFToken {
		t.Error("Expected CSRF token to be masked")
	}
	if sanitized.Username != account.Username {
		t.Error("Expected username to be preserved")
	}

	if SanitizeAccount(nil) != nil {
		t.Error("Expected nil for nil account")
	}
}
