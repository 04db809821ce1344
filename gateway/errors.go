package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	interrors "github.com/chronoluxe/rental-frontend/internal/errors"
)

// Error is the normalized failure shape every gateway call rejects with.
// Status 0 means the transport failed before any HTTP response arrived.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports a 401 - the caller must treat the session as
// actually invalid, clear it, and redirect to login.
func IsUnauthorized(err error) bool {
	var gwErr *Error
	return interrors.As(err, &gwErr) && gwErr.Status == 401
}

// IsNetworkError reports a transport-level failure (no HTTP response).
func IsNetworkError(err error) bool {
	var gwErr *Error
	return interrors.As(err, &gwErr) && gwErr.Status == 0
}

// IsShapeError reports a response that arrived over a healthy transport but
// failed the expected-object/expected-array check. For UX purposes callers
// treat this like a connection failure.
func IsShapeError(err error) bool {
	return interrors.Is(err, interrors.ErrShape)
}

// UserMessage extracts the message a view should surface for err.
func UserMessage(err error) string {
	var gwErr *Error
	if interrors.As(err, &gwErr) {
		return gwErr.Message
	}
	return fallbackMessage
}

// Object decodes raw into T, requiring the body to be a JSON object.
// Anything else is a shape error.
func Object[T any](raw json.RawMessage) (T, error) {
	var out T
	if !leadsWith(raw, '{') {
		return out, interrors.Wrapf(interrors.ErrShape, "expected a JSON object")
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, interrors.Wrapf(interrors.ErrShape, "decode object: %v", err)
	}
	return out, nil
}

// Array decodes raw into a slice of T, requiring the body to be a JSON array.
func Array[T any](raw json.RawMessage) ([]T, error) {
	if !leadsWith(raw, '[') {
		return nil, interrors.Wrapf(interrors.ErrShape, "expected a JSON array")
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, interrors.Wrapf(interrors.ErrShape, "decode array: %v", err)
	}
	return out, nil
}

func leadsWith(raw json.RawMessage, lead byte) bool {
	trimmed := strings.TrimSpace(string(raw))
	return len(trimmed) > 0 && trimmed[0] == lead
}
