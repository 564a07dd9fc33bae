package licensegate

import (
	"net/http"
	"strconv"
	"strings"
)

// classify is a pure function of one wire response. It returns the
// decoded payload for 2xx responses, or a typed error for everything
// else. It performs no I/O and never retries; surfacing is the caller's
// job.
func classify(status int, body []byte, header http.Header) (*wirePayload, *Error) {
	payload, err := decodeWire(body)
	if err != nil {
		return nil, newNetworkError("invalid JSON response", status, string(body), err)
	}

	switch {
	case status >= 200 && status < 300:
		return payload, nil

	case status == http.StatusBadRequest:
		return nil, classifyBadRequest(payload)

	case status == http.StatusNotFound:
		message := payload.errorMessage()
		if message == "" {
			message = "License not found"
		}
		return nil, newLicenseOutcome(KindLicenseNotFound, message, payload.ErrorCode)

	case status == http.StatusTooManyRequests:
		e := newLicenseOutcome(KindRateLimit, rateLimitMessage(payload), payload.ErrorCode)
		e.RetryAfter = retryAfterSeconds(header, payload)
		return nil, e

	case status >= 500 && status < 600:
		return nil, newNetworkError("server error", status, string(body), nil)

	default:
		return nil, newNetworkError("unexpected response", status, string(body), nil)
	}
}

// classifyBadRequest maps a 400 body onto a license outcome by
// case-insensitive substring match against the server's message. The
// rules run in a fixed order and the first match wins; the wording is a
// compatibility contract with the server.
func classifyBadRequest(payload *wirePayload) *Error {
	message := payload.errorMessage()
	if message == "" {
		message = "license request rejected"
	}
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "expired"):
		return newLicenseOutcome(KindLicenseExpired, message, payload.ErrorCode)
	case strings.Contains(lower, rateLimitMarker):
		e := newLicenseOutcome(KindRateLimit, message, payload.ErrorCode)
		if payload.RetryAfter.Value != nil {
			e.RetryAfter = *payload.RetryAfter.Value
		}
		return e
	case strings.Contains(lower, "not found"):
		return newLicenseOutcome(KindLicenseNotFound, message, payload.ErrorCode)
	case strings.Contains(lower, "activation"):
		return newLicenseOutcome(KindActivation, message, payload.ErrorCode)
	default:
		return newLicenseOutcome(KindLicense, message, payload.ErrorCode)
	}
}

func rateLimitMessage(payload *wirePayload) string {
	if message := payload.errorMessage(); message != "" {
		return message
	}
	return "Rate limit exceeded"
}

// retryAfterSeconds resolves the retry delay, preferring the
// Retry-After header over the body field.
func retryAfterSeconds(header http.Header, payload *wirePayload) int {
	if raw := header.Get("Retry-After"); raw != "" {
		if seconds, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && seconds >= 0 {
			return seconds
		}
	}
	if payload.RetryAfter.Value != nil {
		return *payload.RetryAfter.Value
	}
	return 0
}
