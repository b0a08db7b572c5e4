package audit

import "fmt"

// AuthnEvent represents an authentication attempt audit event
type AuthnEvent struct {
	Strategy     string
	Key          string // lookup key of the attempt: login or token reference
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e AuthnEvent) MessageID() string {
	return "authn"
}

func (e AuthnEvent) Message() string {
	subject := e.Key
	if subject == "" {
		subject = "unknown"
	}
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated with strategy %s", subject, e.Strategy)
	}
	msg := fmt.Sprintf("%s failed to authenticate with strategy %s", subject, e.Strategy)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AuthnEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthnEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthnEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"strategy": e.Strategy,
			"user":     e.Key,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	return sd
}

// ChallengeEvent records a request that made no authentication attempt and
// received the challenge response.
type ChallengeEvent struct {
	ClientIP string
	Path     string
}

func (e ChallengeEvent) MessageID() string {
	return "challenge"
}

func (e ChallengeEvent) Message() string {
	return fmt.Sprintf("unauthenticated request to %s was challenged", e.Path)
}

func (e ChallengeEvent) Severity() Severity {
	return SeverityNotice
}

func (e ChallengeEvent) Facility() int {
	return FacilityAuth
}

func (e ChallengeEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDClient: {
			"ip":   e.ClientIP,
			"path": e.Path,
		},
	}
}
