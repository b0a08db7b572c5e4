package authenticator

import "errors"

// Kind classifies an authentication failure.
type Kind int

const (
	// KindMissingCredentials means no authentication attempt was made.
	KindMissingCredentials Kind = iota
	// KindMalformedCredentials means an attempt was present but unparseable.
	KindMalformedCredentials
	// KindPrincipalNotFound means the directory lookup returned no principal.
	KindPrincipalNotFound
	// KindVerificationFailed means a principal was found but the check failed.
	KindVerificationFailed
)

// String returns the snake_case name of the failure kind, used in audit
// structured data and metric labels.
func (k Kind) String() string {
	switch k {
	case KindMissingCredentials:
		return "missing_credentials"
	case KindMalformedCredentials:
		return "malformed_credentials"
	case KindPrincipalNotFound:
		return "principal_not_found"
	case KindVerificationFailed:
		return "verification_failed"
	default:
		return "unknown"
	}
}

// genericMessages are the user-facing fallbacks per failure kind. A custom
// message supplied on the Error takes precedence verbatim.
var genericMessages = map[Kind]string{
	KindMissingCredentials:   "Authentication Required",
	KindMalformedCredentials: "Invalid credentials",
	KindPrincipalNotFound:    "Username could not be found.",
	KindVerificationFailed:   "Invalid credentials",
}

// Error is a tagged authentication failure. It carries an optional custom
// user-facing message that overrides the kind's generic message in the
// failure response.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.UserMessage()
}

// UserMessage returns the custom message when one was supplied, otherwise
// the generic message for the failure kind.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return genericMessages[e.Kind]
}

// NewError creates a tagged failure with a custom user-facing message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// ErrMissingCredentials reports that no credentials were presented.
func ErrMissingCredentials() *Error {
	return &Error{Kind: KindMissingCredentials}
}

// ErrMalformedCredentials reports unparseable credentials, optionally with a
// custom message shown to the caller.
func ErrMalformedCredentials(message string) *Error {
	return &Error{Kind: KindMalformedCredentials, Message: message}
}

// ErrPrincipalNotFound reports that the lookup matched no principal.
func ErrPrincipalNotFound() *Error {
	return &Error{Kind: KindPrincipalNotFound}
}

// ErrVerificationFailed reports that the credential check failed.
func ErrVerificationFailed() *Error {
	return &Error{Kind: KindVerificationFailed}
}

// AsError coerces any error into an *Error. Untagged errors are treated as
// verification failures with their message preserved.
func AsError(err error) *Error {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr
	}
	return &Error{Kind: KindVerificationFailed, Message: err.Error()}
}
