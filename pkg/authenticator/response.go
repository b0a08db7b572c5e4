package authenticator

import (
	"encoding/json"
	"net/http"

	"github.com/gatehouse-sec/gatehouse/pkg/directory"
)

// failureBody is the JSON body of every failure and challenge response.
type failureBody struct {
	Message string `json:"message"`
}

// WriteFailure writes the 403 failure response for an authentication error.
// The body carries the error's custom message when one was supplied,
// otherwise the generic message for its kind.
func WriteFailure(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusForbidden, AsError(err).UserMessage())
}

// WriteChallenge writes the 401 challenge response produced when no
// authentication attempt was made.
func WriteChallenge(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, genericMessages[KindMissingCredentials])
}

func writeJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(failureBody{Message: message})
}

// DefaultVerify accepts any (credentials, principal) pair. Token schemes use
// it: a successful directory lookup already proves the identity.
func DefaultVerify(_ Credentials, _ *directory.Principal) bool {
	return true
}

// Base provides the default success/failure behavior shared by strategies:
// continue the request on success, write the standard 403 JSON on failure,
// and no session persistence. Embed it and override as needed.
type Base struct{}

// OnSuccess continues request processing without writing a response.
func (Base) OnSuccess(_ http.ResponseWriter, _ *http.Request, _ *directory.Principal) bool {
	return false
}

// OnFailure writes the standard failure response.
func (Base) OnFailure(w http.ResponseWriter, _ *http.Request, err error) {
	WriteFailure(w, err)
}

// SupportsSession reports that the strategy is stateless.
func (Base) SupportsSession() bool {
	return false
}
