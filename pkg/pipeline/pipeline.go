package pipeline

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gatehouse-sec/gatehouse/pkg/audit"
	"github.com/gatehouse-sec/gatehouse/pkg/authenticator"
	"github.com/gatehouse-sec/gatehouse/pkg/directory"
	"github.com/gatehouse-sec/gatehouse/pkg/identity"
	"github.com/gatehouse-sec/gatehouse/pkg/metrics"
)

// Pipeline drives registered authentication strategies for each inbound
// request. It owns strategy selection, the per-request state machine, the
// challenge response, and the identity handoff to downstream handlers.
//
// Each attempt is scoped to exactly one request and runs synchronously;
// strategies and the directory are shared read-only, so no locking happens
// here.
type Pipeline struct {
	registry *authenticator.Registry
	dir      directory.Directory

	// TrustedProxy optionally reports whether a peer address belongs to a
	// trusted proxy, enabling X-Forwarded-For resolution.
	TrustedProxy func(ip string) bool

	// AuditFunc receives terminal events. Defaults to audit.Log.
	AuditFunc func(audit.Event)
}

// New creates a pipeline over a strategy registry and a principal directory.
func New(registry *authenticator.Registry, dir directory.Directory) *Pipeline {
	return &Pipeline{
		registry:  registry,
		dir:       dir,
		AuditFunc: audit.Log,
	}
}

// Middleware returns an HTTP middleware enforcing authentication. Requests
// that authenticate continue to next with the identity in their context;
// everything else is answered here.
func (p *Pipeline) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		strategy := p.selectStrategy(r)
		if strategy == nil {
			p.challenge(w, r)
			return
		}

		start := time.Now()
		att := &attempt{state: StateNotAttempted}

		creds, err := strategy.Credentials(r)
		if err != nil {
			if authenticator.AsError(err).Kind == authenticator.KindMissingCredentials {
				p.challenge(w, r)
				return
			}
			att.advance(StateCredentialsExtracted)
			p.fail(w, r, strategy, att, creds, err, start)
			return
		}
		if creds.Empty() {
			// An extracted-but-empty credential is no attempt at all.
			p.challenge(w, r)
			return
		}
		att.advance(StateCredentialsExtracted)

		principal, err := strategy.Principal(r.Context(), creds, p.dir)
		if err != nil {
			p.fail(w, r, strategy, att, creds, err, start)
			return
		}
		if principal == nil {
			p.fail(w, r, strategy, att, creds, authenticator.ErrPrincipalNotFound(), start)
			return
		}
		att.advance(StatePrincipalResolved)

		if !strategy.Verify(creds, principal) {
			p.fail(w, r, strategy, att, creds, authenticator.ErrVerificationFailed(), start)
			return
		}
		att.advance(StateVerified)
		att.advance(StateSuccess)

		id := identity.FromPrincipal(principal, strategy.Name())
		if ip := net.ParseIP(p.clientIP(r)); ip != nil {
			id.WithRemoteIP(ip)
		}
		r = r.WithContext(identity.Set(r.Context(), id))

		p.AuditFunc(audit.AuthnEvent{
			Strategy: strategy.Name(),
			Key:      principal.Login,
			ClientIP: p.clientIP(r),
			Success:  true,
		})
		metrics.AttemptsTotal.WithLabelValues(strategy.Name(), "success").Inc()
		metrics.AttemptDuration.WithLabelValues(strategy.Name()).Observe(time.Since(start).Seconds())

		if strategy.OnSuccess(w, r, principal) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// selectStrategy returns the first registered enabled strategy claiming the
// request, or nil when none does.
func (p *Pipeline) selectStrategy(r *http.Request) authenticator.Strategy {
	for _, name := range p.registry.Enabled() {
		s, ok := p.registry.Get(name)
		if !ok {
			continue
		}
		if s.Supports(r) {
			return s
		}
	}
	return nil
}

// challenge answers a request that made no authentication attempt. The
// designated entry point strategy produces the response when it implements
// Challenger; otherwise the standard 401 challenge is written.
func (p *Pipeline) challenge(w http.ResponseWriter, r *http.Request) {
	if ep, ok := p.registry.EntryPoint(); ok {
		if c, ok := ep.(authenticator.Challenger); ok {
			c.Start(w, r)
		} else {
			authenticator.WriteChallenge(w)
		}
	} else {
		authenticator.WriteChallenge(w)
	}

	p.AuditFunc(audit.ChallengeEvent{
		ClientIP: p.clientIP(r),
		Path:     r.URL.Path,
	})
	metrics.AttemptsTotal.WithLabelValues("none", "challenge").Inc()
}

// fail terminates the attempt with the strategy's failure response.
func (p *Pipeline) fail(w http.ResponseWriter, r *http.Request, strategy authenticator.Strategy, att *attempt, creds authenticator.Credentials, err error, start time.Time) {
	att.advance(StateFailed)
	authErr := authenticator.AsError(err)
	strategy.OnFailure(w, r, authErr)

	p.AuditFunc(audit.AuthnEvent{
		Strategy:     strategy.Name(),
		Key:          creds.Key(),
		ClientIP:     p.clientIP(r),
		Success:      false,
		ErrorMessage: authErr.UserMessage(),
	})
	metrics.AttemptsTotal.WithLabelValues(strategy.Name(), "failure").Inc()
	metrics.FailuresTotal.WithLabelValues(strategy.Name(), authErr.Kind.String()).Inc()
	metrics.AttemptDuration.WithLabelValues(strategy.Name()).Observe(time.Since(start).Seconds())
}

// clientIP resolves the client address, honoring X-Forwarded-For only when
// the peer is a trusted proxy.
func (p *Pipeline) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if p.TrustedProxy != nil && p.TrustedProxy(host) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			return strings.TrimSpace(parts[0])
		}
	}
	return host
}
