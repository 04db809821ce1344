// Package token inspects bearer tokens for their expiry claim.
//
// The backend issues JWT-shaped tokens; this package reads the payload's
// `exp` claim as a UX heuristic only. Signatures are never verified here -
// that is the backend's job - so a "valid" result means "not obviously
// stale", not "trusted".
package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
)

type payloadClaims struct {
	Exp *float64 `json:"exp"`
}

// ExpiresAt decodes the payload segment of raw and returns the instant the
// token expires. The decoding pipeline is deliberately byte-compatible with
// the legacy browser client: split on '.', translate the URL-safe base64
// alphabet to the standard one, base64-decode, re-encode every byte as %XX
// and percent-decode the result to recover the UTF-8 JSON text, then read
// the numeric `exp` claim (epoch seconds).
func ExpiresAt(raw string) (time.Time, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return time.Time{}, errors.New("[token ExpiresAt] token is not a three-part JWT")
	}

	segment := strings.NewReplacer("-", "+", "_", "/").Replace(parts[1])
	segment = strings.TrimRight(segment, "=")
	decoded, err := base64.StdEncoding.WithPadding(base64.NoPadding).DecodeString(segment)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "[token ExpiresAt] base64 decode")
	}

	jsonText, err := percentDecode(decoded)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "[token ExpiresAt] percent decode")
	}

	var claims payloadClaims
	if err := json.Unmarshal([]byte(jsonText), &claims); err != nil {
		return time.Time{}, errors.Wrap(err, "[token ExpiresAt] payload JSON")
	}
	if claims.Exp == nil {
		return time.Time{}, errors.New("[token ExpiresAt] payload has no exp claim")
	}

	return time.UnixMilli(int64(*claims.Exp * 1000)), nil
}

// Valid reports whether raw carries an exp claim strictly in the future of
// now. Any failure during decoding counts as expired (fail closed).
func Valid(raw string, now time.Time) bool {
	expiresAt, err := ExpiresAt(raw)
	if err != nil {
		return false
	}
	return expiresAt.UnixMilli() > now.UnixMilli()
}

// percentDecode reproduces the escape/decodeURIComponent round trip the
// legacy client used to coerce raw bytes into a UTF-8 string. A payload
// that is not valid UTF-8 fails, exactly as decodeURIComponent would throw.
func percentDecode(decoded []byte) (string, error) {
	var encoded strings.Builder
	for _, b := range decoded {
		fmt.Fprintf(&encoded, "%%%02x", b)
	}
	text, err := url.QueryUnescape(encoded.String())
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(text) {
		return "", errors.New("payload is not valid UTF-8")
	}
	return text, nil
}
