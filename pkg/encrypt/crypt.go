/*
encrypt seals small secrets, such as the stored API key, so they are
never written to disk in the clear. A key is derived from a passphrase
with Argon2id and the payload sealed with AES-256-GCM; each sealed blob
carries its own salt so passphrase reuse across blobs is safe.
*/
package encrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	// Packages
	askstack "github.com/thesubgraph/go-askstack"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Seal derives a key from the passphrase with a fresh salt and encrypts
// the plaintext. The returned blob is:
//
//	salt (16 bytes) || nonce (12 bytes) || ciphertext + tag
func Seal(passphrase string, plaintext []byte) ([]byte, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return nil, askstack.ErrInternalServerError.Withf("seal: %v", err)
	}
	key := DeriveKey(passphrase, salt)
	sealed, err := key.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}
	return append(salt, sealed...), nil
}

// Open splits the salt from a blob produced by Seal, re-derives the key
// and decrypts. A wrong passphrase fails authentication and returns an
// error rather than garbage.
func Open(passphrase string, blob []byte) ([]byte, error) {
	if len(blob) < SaltSize {
		return nil, askstack.ErrBadParameter.With("sealed data too short")
	}
	salt, sealed := blob[:SaltSize], blob[SaltSize:]
	key := DeriveKey(passphrase, salt)
	return key.Decrypt(sealed)
}

// Encrypt seals plaintext with AES-256-GCM under a random nonce and
// returns nonce || ciphertext + tag
func (k Key) Encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, askstack.ErrInternalServerError.Withf("encrypt: %v", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, askstack.ErrInternalServerError.Withf("encrypt: %v", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, askstack.ErrInternalServerError.Withf("encrypt: %v", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens nonce || ciphertext + tag produced by Encrypt
func (k Key) Decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, askstack.ErrInternalServerError.Withf("decrypt: %v", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, askstack.ErrInternalServerError.Withf("decrypt: %v", err)
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, askstack.ErrBadParameter.With("ciphertext too short")
	}
	nonce, data := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, data, nil)
	if err != nil {
		return nil, askstack.ErrBadParameter.With("decrypt failed, wrong passphrase or corrupt data")
	}
	return plaintext, nil
}
