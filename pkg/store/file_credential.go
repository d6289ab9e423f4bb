package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	// Packages
	askstack "github.com/thesubgraph/go-askstack"
	encrypt "github.com/thesubgraph/go-askstack/pkg/encrypt"
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// FileCredentialStore is a filesystem-backed implementation of
// CredentialStore. The credential is kept as one sealed binary file
// (salt || nonce || ciphertext + tag) with no wrapper or metadata, so the
// file on disk reveals nothing about its contents. It is safe for
// concurrent use.
type FileCredentialStore struct {
	mu         sync.RWMutex
	passphrase string
	path       string
}

var _ schema.CredentialStore = (*FileCredentialStore)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const credentialFile = "credential.bin"

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewFileCredentialStore creates a file-backed credential store rooted at
// dir. The directory is created if it does not already exist.
func NewFileCredentialStore(passphrase, dir string) (*FileCredentialStore, error) {
	if err := encrypt.ValidatePassphrase(passphrase); err != nil {
		return nil, err
	}
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &FileCredentialStore{
		passphrase: passphrase,
		path:       filepath.Join(dir, credentialFile),
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetCredential returns the stored credential
func (s *FileCredentialStore) GetCredential(_ context.Context) (*schema.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, askstack.ErrNotFound.With("no credential stored")
		}
		return nil, askstack.ErrInternalServerError.Withf("read: %v", err)
	}
	return openCredential(s.passphrase, blob)
}

// SetCredential stores or replaces the credential
func (s *FileCredentialStore) SetCredential(_ context.Context, credential schema.Credential) error {
	blob, err := sealCredential(s.passphrase, credential)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path, blob, FilePerm); err != nil {
		return askstack.ErrInternalServerError.Withf("write: %v", err)
	}
	return nil
}

// DeleteCredential removes the stored credential
func (s *FileCredentialStore) DeleteCredential(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return askstack.ErrNotFound.With("no credential stored")
		}
		return askstack.ErrInternalServerError.Withf("remove: %v", err)
	}
	return nil
}
