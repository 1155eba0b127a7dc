package errors

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxRetryDelay = 30 * time.Second

// CodeForStatus buckets an HTTP response status into the client taxonomy.
func CodeForStatus(status int) Code {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimit
	default:
		if status >= 500 {
			return CodeServer
		}
		return CodeInternal
	}
}

// FromResponse converts a non-2xx API response into a typed error. The
// server-supplied message, when present, is kept verbatim so UserMessage can
// prefer it over the per-code fallback.
func FromResponse(status int, header http.Header, body []byte) *Error {
	code := CodeForStatus(status)
	message := serverMessage(body)

	err := &Error{code: code, message: message, remote: message != ""}
	if err.message == "" {
		err.message = http.StatusText(status)
	}
	if code == CodeRateLimit {
		err.retryAfter = parseRetryAfter(header)
	}
	if MetadataFor(code).DetailsAllowed {
		var details map[string]any
		if jsonErr := json.Unmarshal(body, &details); jsonErr == nil {
			err.details = details
		}
	}
	return err
}

func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var envelope struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	if len(envelope.Error) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(envelope.Error, &asString); err == nil {
		return asString
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &nested); err == nil {
		return nested.Message
	}
	return ""
}

func parseRetryAfter(header http.Header) time.Duration {
	raw := strings.TrimSpace(header.Get("Retry-After"))
	if raw == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if delay := time.Until(at); delay > 0 {
			return delay
		}
	}
	return 0
}

// Normalize classifies any error into the client taxonomy. Typed errors pass
// through untouched; transport failures become network errors; everything
// else is bucketed as internal.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	if typed := As(err); typed != nil {
		return typed
	}
	if isNetworkError(err) {
		return Wrap(CodeNetwork, err, "request failed to reach the server")
	}
	return Wrap(CodeInternal, err, err.Error())
}

func isNetworkError(err error) bool {
	if stdErrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if stdErrors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return stdErrors.As(err, &urlErr)
}

// friendlyOverrides rephrases known server messages into kinder equivalents.
// Matching is case-insensitive on substrings.
var friendlyOverrides = []struct {
	match   string
	message string
}{
	{match: "already registered", message: "An account with this email already exists. Try logging in instead."},
	{match: "already exists", message: "An account with this email already exists. Try logging in instead."},
	{match: "invalid credentials", message: "That email and password combination did not match."},
}

// UserMessage produces the single user-facing string for any failure. A
// server-supplied message is preferred verbatim unless an override applies;
// otherwise the per-code fallback is used.
func UserMessage(err error) string {
	typed := Normalize(err)
	if typed == nil {
		return ""
	}
	if typed.Remote() && typed.Message() != "" {
		lower := strings.ToLower(typed.Message())
		for _, override := range friendlyOverrides {
			if strings.Contains(lower, override.match) {
				return override.message
			}
		}
		return typed.Message()
	}
	return MetadataFor(typed.Code()).PublicMessage
}

// IsRecoverable reports whether a retry could plausibly succeed.
func IsRecoverable(err error) bool {
	typed := Normalize(err)
	if typed == nil {
		return false
	}
	return MetadataFor(typed.Code()).Retryable
}

// RetryDelay suggests how long to wait before attempt n (zero-based). Rate
// limits honor the server's Retry-After, server errors back off
// exponentially up to 30s, network errors use a fixed short delay.
func RetryDelay(err error, attempt int) time.Duration {
	typed := Normalize(err)
	if typed == nil {
		return 0
	}
	switch typed.Code() {
	case CodeRateLimit:
		if after := typed.RetryAfter(); after > 0 {
			return after
		}
		return 5 * time.Second
	case CodeServer:
		if attempt < 0 {
			attempt = 0
		}
		delay := time.Second << uint(attempt)
		if delay > maxRetryDelay || delay <= 0 {
			return maxRetryDelay
		}
		return delay
	case CodeNetwork:
		return 2 * time.Second
	default:
		return 0
	}
}
