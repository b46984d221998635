// Package auth verifies identity provider access tokens and manages the
// shared PASETO key.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	keyLength    = 32
	keyHexLength = 2 * keyLength
)

// KeySource says where the token key comes from. Hex wins when set;
// otherwise the key is read from File, which is created on first use.
type KeySource struct {
	Hex  string
	File string
}

// Load returns the 32-byte token key.
func (s KeySource) Load() ([]byte, error) {
	if s.Hex != "" {
		return ParseKey(s.Hex)
	}
	if s.File == "" {
		return nil, errors.New("auth key: no key or key file configured")
	}

	key, err := readKeyFile(s.File)
	if !errors.Is(err, fs.ErrNotExist) {
		return key, err
	}
	key, err = createKeyFile(s.File)
	if errors.Is(err, fs.ErrExist) {
		// Another process (the seed tool or a second server) won the race.
		return readKeyFile(s.File)
	}
	return key, err
}

// ParseKey decodes a hex-encoded PASETO v4 key.
func ParseKey(keyHex string) ([]byte, error) {
	keyHex = strings.TrimSpace(keyHex)
	if len(keyHex) != keyHexLength {
		return nil, fmt.Errorf("auth key must be %d hex characters, got %d", keyHexLength, len(keyHex))
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("auth key is not valid hex: %w", err)
	}
	return key, nil
}

func readKeyFile(path string) ([]byte, error) {
	//#nosec G304 -- path comes from configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := ParseKey(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return key, nil
}

// createKeyFile publishes a fresh key with a hard link so readers never see
// a partial file. It fails with fs.ErrExist rather than replace a key tokens
// may already be signed with.
func createKeyFile(path string) ([]byte, error) {
	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate auth key: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create auth key directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".auth-key-*")
	if err != nil {
		return nil, fmt.Errorf("write auth key: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(hex.EncodeToString(key)); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write auth key: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("write auth key: %w", err)
	}
	if err := os.Link(tmp.Name(), path); err != nil {
		return nil, err
	}
	return key, nil
}
