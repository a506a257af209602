package shared

import "errors"

var (
	// ErrSessionMissing occurs when a request carries no session.
	ErrSessionMissing = errors.New("session missing")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// userMessenger is implemented by errors that carry a message meant for the
// operator, such as application-level failures reported by the API server.
type userMessenger interface {
	UserMessage() string
}

// transportFailure marks errors raised before a usable response arrived.
type transportFailure interface {
	Transport() bool
}

// UserSafeMessage maps an error to the notice shown to the operator:
// the server message when one exists, the fallback for bare application
// failures, and "Error: <cause>" for transport failures.
func UserSafeMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var msg userMessenger
	if errors.As(err, &msg) {
		if text := msg.UserMessage(); text != "" {
			return text
		}
		return fallback
	}
	var tf transportFailure
	if errors.As(err, &tf) && tf.Transport() {
		return "Error: " + err.Error()
	}
	return fallback
}
