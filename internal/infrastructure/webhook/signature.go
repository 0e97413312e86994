package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/tickethub/datatrans-service/internal/domain"
)

// Signature headers look like:
// t=1681477968899,s0=f3fe103b3319848c7e71560739c8da3f64e5007a4ef4a04b1cd135e7d64e29c6
var signaturePattern = regexp.MustCompile(`^t=([0-9]+),s0=([0-9a-fA-F]+)$`)

// Verifier checks the HMAC-SHA256 signature the gateway attaches to
// webhook deliveries. The key is configured as a hex string.
type Verifier struct {
	key []byte
}

// NewVerifier fails when no key is configured: accepting unsigned webhooks
// must never be a silent fallback.
func NewVerifier(hexKey string) (*Verifier, error) {
	if hexKey == "" {
		return nil, domain.ErrSigningKeyMissing
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding webhook signing key: %w", err)
	}
	return &Verifier{key: key}, nil
}

// Verify checks rawHeader against the request body. The signed message is
// the decimal timestamp string concatenated with the raw body bytes.
// Any malformed header or digest mismatch yields ErrSignatureInvalid.
func (v *Verifier) Verify(rawHeader string, body []byte) error {
	m := signaturePattern.FindStringSubmatch(rawHeader)
	if m == nil {
		return domain.ErrSignatureInvalid
	}
	timestamp, gotHex := m[1], m[2]

	got, err := hex.DecodeString(gotHex)
	if err != nil {
		return domain.ErrSignatureInvalid
	}

	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(timestamp))
	mac.Write(body)
	want := mac.Sum(nil)

	if !hmac.Equal(got, want) {
		return domain.ErrSignatureInvalid
	}
	return nil
}
