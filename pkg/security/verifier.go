package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// AuthorityVerifier checks operation signatures against the primary and
// delegated authority keys. A signature for an operation is the hex-encoded
// HMAC-SHA256 of the operation name under the authority's key.
//
// A verifier with no key for an authority rejects every signature for it.
type AuthorityVerifier struct {
	primaryKey   []byte
	delegatedKey []byte
}

// NewAuthorityVerifier creates a verifier from raw key material. Either key
// may be nil, which disables that authority.
func NewAuthorityVerifier(primaryKey, delegatedKey []byte) *AuthorityVerifier {
	return &AuthorityVerifier{
		primaryKey:   primaryKey,
		delegatedKey: delegatedKey,
	}
}

// LoadAuthorityVerifier reads authority keys from files. An empty path
// disables that authority. Key files hold the raw key, optionally with
// trailing whitespace.
func LoadAuthorityVerifier(primaryKeyPath, delegatedKeyPath string) (*AuthorityVerifier, error) {
	primary, err := readKeyFile(primaryKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load primary authority key: %w", err)
	}
	delegated, err := readKeyFile(delegatedKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load delegated authority key: %w", err)
	}
	return NewAuthorityVerifier(primary, delegated), nil
}

// VerifyPrimary reports whether signature is a valid primary-authority
// signature for operation.
func (v *AuthorityVerifier) VerifyPrimary(operation, signature string) bool {
	return verify(v.primaryKey, operation, signature)
}

// VerifyDelegated reports whether signature is a valid delegated-authority
// signature for operation.
func (v *AuthorityVerifier) VerifyDelegated(operation, signature string) bool {
	return verify(v.delegatedKey, operation, signature)
}

// Sign produces the hex HMAC-SHA256 signature for operation under key.
// It is the counterpart operators use to authorize privileged operations.
func Sign(key []byte, operation string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(operation))
	return hex.EncodeToString(mac.Sum(nil))
}

func verify(key []byte, operation, signature string) bool {
	if len(key) == 0 || signature == "" {
		return false
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(operation))
	return hmac.Equal(mac.Sum(nil), provided)
}

func readKeyFile(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return nil, fmt.Errorf("key file %q is empty", path)
	}
	return []byte(key), nil
}
