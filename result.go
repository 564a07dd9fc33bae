package licensegate

import (
	"strings"
	"time"
)

// rateLimitMarker is matched case-insensitively against server error
// messages. The substring contract mirrors the server's free-text
// wording and must not be changed independently of it.
const rateLimitMarker = "rate limit"

// Result is an immutable snapshot of one validation or activation
// outcome. Construction never fails: fields the server omitted or sent
// malformed are simply absent.
type Result struct {
	Valid                bool       `json:"valid"`
	Success              bool       `json:"success"`
	ErrorMessage         string     `json:"error_message,omitempty"`
	ErrorCode            string     `json:"error_code,omitempty"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	ActivationsRemaining *int       `json:"activations_remaining,omitempty"`
	RetryAfter           *int       `json:"retry_after,omitempty"`
	Token                string     `json:"token,omitempty"`
	Timestamp            *time.Time `json:"timestamp,omitempty"`
	RateLimitRemaining   *int       `json:"rate_limit_remaining,omitempty"`
	RateLimitResetAt     *time.Time `json:"rate_limit_reset_at,omitempty"`
}

// newResult maps a decoded wire payload onto a Result.
func newResult(p *wirePayload) *Result {
	return &Result{
		Valid:                p.Valid.or(false),
		Success:              p.Success.or(false),
		ErrorMessage:         p.errorMessage(),
		ErrorCode:            p.ErrorCode,
		ExpiresAt:            p.ExpiresAt.Time,
		ActivationsRemaining: p.ActivationsRemaining.Value,
		RetryAfter:           p.RetryAfter.Value,
		Token:                p.Token,
		Timestamp:            p.Timestamp.Time,
		RateLimitRemaining:   p.RateLimit.Remaining.Value,
		RateLimitResetAt:     p.RateLimit.ResetAt.Time,
	}
}

// resultFromError folds a business-level license error into the uniform
// Result shape callers branch on.
func resultFromError(e *Error) *Result {
	r := &Result{
		Valid:        false,
		Success:      false,
		ErrorMessage: e.Message,
		ErrorCode:    e.Code,
	}
	if e.RetryAfter > 0 {
		retry := e.RetryAfter
		r.RetryAfter = &retry
	}
	return r
}

// Expired reports whether the license carries an expiry in the past.
// An absent expiry is never expired.
func (r *Result) Expired() bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(time.Now())
}

// RateLimited reports whether the outcome was a rate-limit rejection,
// by error code or by the server's message wording.
func (r *Result) RateLimited() bool {
	if r.ErrorCode == ErrCodeRateLimited {
		return true
	}
	return r.ErrorMessage != "" && strings.Contains(strings.ToLower(r.ErrorMessage), rateLimitMarker)
}
