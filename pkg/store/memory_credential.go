package store

import (
	"context"
	"encoding/json"
	"sync"

	// Packages
	askstack "github.com/thesubgraph/go-askstack"
	encrypt "github.com/thesubgraph/go-askstack/pkg/encrypt"
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// MemoryCredentialStore is an in-memory implementation of CredentialStore.
// The credential is held sealed even in memory so the API key only exists
// in the clear while a caller is using it. It is safe for concurrent use.
type MemoryCredentialStore struct {
	mu         sync.RWMutex
	passphrase string
	blob       []byte
}

var _ schema.CredentialStore = (*MemoryCredentialStore)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewMemoryCredentialStore creates an empty in-memory credential store.
// The passphrase seals and opens the credential.
func NewMemoryCredentialStore(passphrase string) (*MemoryCredentialStore, error) {
	if err := encrypt.ValidatePassphrase(passphrase); err != nil {
		return nil, err
	}
	return &MemoryCredentialStore{
		passphrase: passphrase,
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetCredential returns the stored credential
func (s *MemoryCredentialStore) GetCredential(_ context.Context) (*schema.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.blob == nil {
		return nil, askstack.ErrNotFound.With("no credential stored")
	}
	return openCredential(s.passphrase, s.blob)
}

// SetCredential stores or replaces the credential
func (s *MemoryCredentialStore) SetCredential(_ context.Context, credential schema.Credential) error {
	blob, err := sealCredential(s.passphrase, credential)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = blob
	return nil
}

// DeleteCredential removes the stored credential
func (s *MemoryCredentialStore) DeleteCredential(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blob == nil {
		return askstack.ErrNotFound.With("no credential stored")
	}
	s.blob = nil
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// sealCredential marshals and seals a credential under the passphrase
func sealCredential(passphrase string, credential schema.Credential) ([]byte, error) {
	if credential.APIKey == "" {
		return nil, askstack.ErrBadParameter.With("api key is required")
	}
	plaintext, err := json.Marshal(credential)
	if err != nil {
		return nil, askstack.ErrInternalServerError.Withf("marshal: %v", err)
	}
	return encrypt.Seal(passphrase, plaintext)
}

// openCredential opens and unmarshals a sealed credential blob
func openCredential(passphrase string, blob []byte) (*schema.Credential, error) {
	plaintext, err := encrypt.Open(passphrase, blob)
	if err != nil {
		return nil, err
	}
	var credential schema.Credential
	if err := json.Unmarshal(plaintext, &credential); err != nil {
		return nil, askstack.ErrInternalServerError.Withf("unmarshal: %v", err)
	}
	return &credential, nil
}
