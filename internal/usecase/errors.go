package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// Upstream fetch outcomes. Unavailable and rate limited are
	// transient; the fetch layer retries them before surfacing.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamRateLimited = errors.New("upstream rate limited")
	ErrUpstreamNotFound    = errors.New("upstream resource not found")

	// Permanent payload problems. Retrying the same fetch cannot fix
	// these; they need operator attention or an upstream fix.
	ErrMalformedPayload = errors.New("malformed upstream payload")
	ErrMappingFailed    = errors.New("mapping failed")
)

// IsTransientUpstream reports whether err is worth retrying against
// the upstream provider.
func IsTransientUpstream(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable) || errors.Is(err, ErrUpstreamRateLimited)
}
