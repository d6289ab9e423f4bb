package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	// Packages
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
	store "github.com/thesubgraph/go-askstack/pkg/store"
	assert "github.com/stretchr/testify/assert"
)

const passphrase = "correct horse battery staple"

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

func credentialStores(t *testing.T) map[string]schema.CredentialStore {
	t.Helper()
	memory, err := store.NewMemoryCredentialStore(passphrase)
	assert.NoError(t, err)
	file, err := store.NewFileCredentialStore(passphrase, t.TempDir())
	assert.NoError(t, err)
	return map[string]schema.CredentialStore{
		"memory": memory,
		"file":   file,
	}
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_credential_001(t *testing.T) {
	for name, s := range credentialStores(t) {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.TODO()

			// Empty store
			_, err := s.GetCredential(ctx)
			assert.Error(err)

			// Round trip
			assert.NoError(s.SetCredential(ctx, schema.Credential{
				APIKey:             "sk-test-key",
				DefaultAssistantID: "asst_1",
			}))
			credential, err := s.GetCredential(ctx)
			assert.NoError(err)
			assert.Equal("sk-test-key", credential.APIKey)
			assert.Equal("asst_1", credential.DefaultAssistantID)

			// Replace
			assert.NoError(s.SetCredential(ctx, schema.Credential{APIKey: "sk-other"}))
			credential, err = s.GetCredential(ctx)
			assert.NoError(err)
			assert.Equal("sk-other", credential.APIKey)

			// Delete
			assert.NoError(s.DeleteCredential(ctx))
			_, err = s.GetCredential(ctx)
			assert.Error(err)
			assert.Error(s.DeleteCredential(ctx))
		})
	}
}

func Test_credential_002(t *testing.T) {
	for name, s := range credentialStores(t) {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			// An empty API key is rejected
			assert.Error(s.SetCredential(context.TODO(), schema.Credential{}))
		})
	}
}

func Test_credential_003(t *testing.T) {
	assert := assert.New(t)
	ctx := context.TODO()

	// The on-disk blob never contains the key in the clear
	dir := t.TempDir()
	s, err := store.NewFileCredentialStore(passphrase, dir)
	assert.NoError(err)
	assert.NoError(s.SetCredential(ctx, schema.Credential{APIKey: "sk-plaintext-check"}))

	data, err := os.ReadFile(filepath.Join(dir, "credential.bin"))
	assert.NoError(err)
	assert.NotContains(string(data), "sk-plaintext-check")

	// A store opened with the wrong passphrase cannot read it
	wrong, err := store.NewFileCredentialStore("a different passphrase", dir)
	assert.NoError(err)
	_, err = wrong.GetCredential(ctx)
	assert.Error(err)
}

func Test_credential_004(t *testing.T) {
	assert := assert.New(t)

	// Weak passphrases are rejected at construction
	_, err := store.NewMemoryCredentialStore("short")
	assert.Error(err)
	_, err = store.NewFileCredentialStore("", t.TempDir())
	assert.Error(err)
}
