// Package auth implements the rolling token credential and the optional
// HMAC request-signing check used by the history API.
//
// The token is an anti-scraping gate, not a security boundary: the hash is a
// non-keyed rolling hash and the shared secret ships inside client code. Do
// not reuse this scheme for anything that needs real access control.
package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// DefaultMaxAge is the token validity window.
const DefaultMaxAge = 5 * time.Minute

var (
	ErrMalformed = errors.New("token malformed")
	ErrExpired   = errors.New("token expired")
	ErrMismatch  = errors.New("token hash mismatch")
)

// Hash computes the legacy rolling hash of payload: h = h*31 + ch truncated
// to signed 32 bits, absolute value, base-36. Kept bit-compatible with the
// hash the deployed clients compute, so issued tokens interoperate.
func Hash(payload string) string {
	var h int32
	for _, b := range []byte(payload) {
		h = (h << 5) - h + int32(b)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}

// Token serializes a credential as "<unixSeconds>.<hash>".
func Token(secret string, issuedAt time.Time) string {
	ts := strconv.FormatInt(issuedAt.Unix(), 10)
	return ts + "." + Hash(ts+secret)
}

// Verifier issues and checks tokens against a shared secret. The clock is
// injectable so expiry boundaries are testable without sleeping.
type Verifier struct {
	secret string
	maxAge time.Duration
	now    func() time.Time
}

func NewVerifier(secret string, maxAge time.Duration) *Verifier {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Verifier{secret: secret, maxAge: maxAge, now: time.Now}
}

// WithClock replaces the verifier's clock. Returns the verifier for chaining.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// Issue mints a token for the current instant.
func (v *Verifier) Issue() string {
	return Token(v.secret, v.now())
}

// Verify checks a "<timestamp>.<hash>" token. The hash must match the
// recomputation exactly; the timestamp must fall within maxAge of now in
// either direction, tolerating client clock skew symmetrically.
func (v *Verifier) Verify(token string) error {
	tsPart, hashPart, ok := strings.Cut(token, ".")
	if !ok || tsPart == "" || hashPart == "" {
		return ErrMalformed
	}
	issuedAt, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil {
		return ErrMalformed
	}
	if Hash(tsPart+v.secret) != hashPart {
		return ErrMismatch
	}
	age := v.now().Unix() - issuedAt
	if age > int64(v.maxAge.Seconds()) || age < -int64(v.maxAge.Seconds()) {
		return ErrExpired
	}
	return nil
}

// MaxAge returns the configured validity window.
func (v *Verifier) MaxAge() time.Duration {
	return v.maxAge
}
