package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize128 provides 128 bits of entropy (22 chars base64url).
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (43 chars base64url).
	TokenSize256 = 32
)

// GenerateToken creates a cryptographically secure random token of the
// specified byte length, returned base64url-encoded without padding.
//
//   - TokenSize128: ceremony challenges
//   - TokenSize256: session bearer tokens
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token.
// Session tokens are stored by fingerprint so a leaked table cannot be
// replayed as bearer credentials.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// EqualStrings compares two secrets in constant time.
func EqualStrings(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

var stdToURL = strings.NewReplacer("+", "-", "/", "_")

// DecodeBase64URL decodes browser supplied base64 without caring which
// alphabet or padding style the client used. An empty input decodes to an
// empty, non-nil slice.
func DecodeBase64URL(value string) ([]byte, error) {
	if value == "" {
		return []byte{}, nil
	}

	normalized := stdToURL.Replace(strings.TrimRight(value, "="))
	out, err := base64.RawURLEncoding.DecodeString(normalized)
	if err != nil {
		return nil, fmt.Errorf("decode base64url: %w", err)
	}
	return out, nil
}
