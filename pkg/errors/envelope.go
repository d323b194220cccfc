package errors

import (
	stderrors "errors"
	"net/http"
	"time"
)

// Envelope is the wire form of a service error: `{error, message, detail}`.
// The HTTP layer serializes it; the remote backend decodes it back into the
// typed taxonomy.
type Envelope struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Detail  map[string]any `json:"detail"`
}

// ToEnvelope converts an error into its wire form. Errors outside the
// taxonomy are reported as internal errors.
func ToEnvelope(err error) Envelope {
	var svcErr ServiceError
	if stderrors.As(err, &svcErr) {
		return Envelope{Error: svcErr.Code(), Message: svcErr.Error(), Detail: svcErr.Detail()}
	}
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Envelope{Error: CodeInternal, Message: msg}
}

// StatusFor returns the HTTP status an error maps to, 500 for anything
// outside the taxonomy.
func StatusFor(err error) int {
	var svcErr ServiceError
	if stderrors.As(err, &svcErr) {
		return svcErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// FromEnvelope reconstructs a typed error from a decoded envelope so remote
// callers can handle error kinds uniformly with local ones. Unknown codes
// degrade to a VerificationError carrying the message.
func FromEnvelope(env Envelope) error {
	switch env.Error {
	case CodeVerifierNotFound:
		return &VerifierNotFoundError{Available: detailStrings(env.Detail, "available")}
	case CodeInvalidConfig:
		return &InvalidConfigError{InvalidOptions: detailStrings(env.Detail, "invalid_options")}
	case CodeInvalidFilter:
		return &InvalidFilterError{InvalidRoles: detailStrings(env.Detail, "invalid_roles")}
	case CodeFiltering:
		role, _ := env.Detail["role"].(string)
		return &FilteringError{Role: role, Err: stderrors.New(env.Message)}
	case CodeTimeout:
		limit := time.Duration(detailInt(env.Detail, "timeout_ms")) * time.Millisecond
		return &TimeoutError{Limit: limit}
	case CodeQueueFull:
		return &QueueFullError{Capacity: int(detailInt(env.Detail, "capacity"))}
	default:
		return &VerificationError{Err: stderrors.New(env.Message)}
	}
}

func detailStrings(detail map[string]any, key string) []string {
	raw, ok := detail[key]
	if !ok {
		return nil
	}
	switch vals := raw.(type) {
	case []string:
		return append([]string(nil), vals...)
	case []any:
		out := make([]string, 0, len(vals))
		for _, v := range vals {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func detailInt(detail map[string]any, key string) int64 {
	switch v := detail[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		// JSON numbers decode as float64.
		return int64(v)
	default:
		return 0
	}
}
