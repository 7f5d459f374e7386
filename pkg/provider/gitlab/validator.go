package gitlab

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
)

// tokenHeader carries the shared secret on GitLab webhook deliveries.
const tokenHeader = "X-Gitlab-Token"

// supportedKinds is the object_kind allow-list. Payloads outside it are
// rejected before any signature work.
var supportedKinds = map[string]struct{}{
	"push":          {},
	"tag_push":      {},
	"issue":         {},
	"merge_request": {},
	"note":          {},
	"pipeline":      {},
	"build":         {},
	"wiki_page":     {},
	"deployment":    {},
	"release":       {},
}

// Validator authenticates inbound GitLab webhook calls against a shared
// secret.
type Validator struct {
	secret string
}

// NewValidator creates a Validator for one configured secret. An empty
// secret fails every validation.
func NewValidator(secret string) *Validator {
	return &Validator{secret: secret}
}

// Validate reports whether the delivery is authentic. GitLab echoes the
// configured secret verbatim in X-Gitlab-Token; that comparison is the
// primary path. A hex HMAC-SHA256 digest of the raw payload keyed by the
// secret is accepted as an alternative. Both comparisons are constant-time
// over the secret material.
func (v *Validator) Validate(payload []byte, headers http.Header) bool {
	if v == nil || v.secret == "" || headers == nil {
		return false
	}
	token := headers.Get(tokenHeader)
	if token == "" {
		return false
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return false
	}
	if env.ObjectKind == "" {
		return false
	}
	if _, ok := supportedKinds[env.ObjectKind]; !ok {
		return false
	}

	if v.ValidateToken(token) {
		return true
	}
	return v.ValidateSignature(payload, token)
}

// ValidateToken compares a plain token against the configured secret in
// constant time.
func (v *Validator) ValidateToken(token string) bool {
	if v == nil || v.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(v.secret)) == 1
}

// ValidateSignature checks a hex-encoded HMAC-SHA256 digest of the payload
// keyed by the configured secret.
func (v *Validator) ValidateSignature(payload []byte, signature string) bool {
	if v == nil || v.secret == "" {
		return false
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write(payload)
	return hmac.Equal(provided, mac.Sum(nil))
}
