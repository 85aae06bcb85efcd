// Package cryptox implements the client-side scene encryption. The server
// only ever sees the sealed blob and a non-secret key id.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/dmitrijs2005/scenevault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize  = 16
	NonceSize = 12
	KeySize   = 32
)

var (
	ErrBlobTooShort  = errors.New("sealed scene is too short")
	ErrDecryptFailed = errors.New("wrong passphrase or corrupted scene")
)

// MakeVerifier returns a digest of the key that can be shown to the server.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// KeyID is the hex form of MakeVerifier, sent as the scene's key reference.
func KeyID(masterKey []byte) string {
	return hex.EncodeToString(MakeVerifier(masterKey))
}

// DeriveMasterKey stretches a passphrase into an AES-256 key with argon2id.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// SealScene encrypts plaintext under a key derived from passphrase and a
// fresh salt. The result is salt|nonce|ciphertext.
func SealScene(passphrase, plaintext []byte) (blob []byte, keyID string, err error) {
	salt := common.GenerateRandByteArray(SaltSize)
	key := DeriveMasterKey(passphrase, salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, "", err
	}

	nonce := common.GenerateRandByteArray(NonceSize)

	blob = make([]byte, 0, SaltSize+NonceSize+len(plaintext)+aesgcm.Overhead())
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = aesgcm.Seal(blob, nonce, plaintext, nil)

	return blob, KeyID(key), nil
}

// OpenScene reverses SealScene.
func OpenScene(passphrase, blob []byte) ([]byte, error) {
	if len(blob) < SaltSize+NonceSize {
		return nil, ErrBlobTooShort
	}
	salt, nonce, ciphertext := blob[:SaltSize], blob[SaltSize:SaltSize+NonceSize], blob[SaltSize+NonceSize:]

	key := DeriveMasterKey(passphrase, salt)
	defer common.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}
