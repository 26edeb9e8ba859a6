package registry

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// storeMagic prefixes every sealed store so stale or foreign files fail fast
const storeMagic = "JCRD1"

const saltSize = 16

// scrypt parameters; interactive-strength, the store is opened once per run
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// storeCipher seals and opens the registry file. The key comes from a
// passphrase when one is provided, otherwise from a generated key file next
// to the store.
type storeCipher struct {
	passphrase string
	keyFile    string
}

func newStoreCipher(storePath string, passphrase string) (*storeCipher, error) {
	c := &storeCipher{passphrase: passphrase}
	if passphrase == "" {
		c.keyFile = storePath + ".key"
	}
	return c, nil
}

// key derives (or loads) the 32-byte cipher key. salt must be present for
// passphrase derivation; key-file mode ignores it.
func (c *storeCipher) key(salt []byte) ([]byte, error) {
	if c.passphrase != "" {
		return scrypt.Key([]byte(c.passphrase), salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	}
	return c.loadOrCreateKeyFile()
}

func (c *storeCipher) loadOrCreateKeyFile() ([]byte, error) {
	data, err := os.ReadFile(c.keyFile)
	if err == nil {
		key, decErr := hex.DecodeString(strings.TrimSpace(string(data)))
		if decErr != nil || len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("store key file %s is corrupt", c.keyFile)
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate store key: %w", err)
	}
	if err := os.WriteFile(c.keyFile, []byte(hex.EncodeToString(key)+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write store key file: %w", err)
	}
	return key, nil
}

// encrypt seals plaintext as magic || salt || nonce || ciphertext
func (c *storeCipher) encrypt(plain []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key, err := c.key(salt)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(storeMagic)+saltSize+len(nonce)+len(plain)+aead.Overhead())
	out = append(out, storeMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plain, nil), nil
}

func (c *storeCipher) decrypt(sealed []byte) ([]byte, error) {
	if len(sealed) < len(storeMagic)+saltSize+chacha20poly1305.NonceSizeX {
		return nil, fmt.Errorf("store file is truncated")
	}
	if string(sealed[:len(storeMagic)]) != storeMagic {
		return nil, fmt.Errorf("store file has an unknown format")
	}
	sealed = sealed[len(storeMagic):]

	salt := sealed[:saltSize]
	nonce := sealed[saltSize : saltSize+chacha20poly1305.NonceSizeX]
	ciphertext := sealed[saltSize+chacha20poly1305.NonceSizeX:]

	key, err := c.key(salt)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("store file failed to authenticate (wrong key?): %w", err)
	}
	return plain, nil
}
