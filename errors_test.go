package licensegate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindConfiguration, "configuration"},
		{KindNetwork, "network"},
		{KindLicense, "license"},
		{KindRateLimit, "rate_limit"},
		{KindLicenseNotFound, "license_not_found"},
		{KindLicenseExpired, "license_expired"},
		{KindActivation, "activation"},
		{KindMachine, "machine"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestErrorFormatting(t *testing.T) {
	withCode := newLicenseOutcome(KindLicenseExpired, "License has expired", "")
	assert.Equal(t, "license_expired: License has expired (LICENSE_EXPIRED)", withCode.Error())

	withoutCode := &Error{Kind: KindNetwork, Message: "server error"}
	assert.Equal(t, "network: server error", withoutCode.Error())
}

func TestErrorBusinessClassification(t *testing.T) {
	business := []Kind{KindLicense, KindRateLimit, KindLicenseNotFound, KindLicenseExpired, KindActivation}
	for _, kind := range business {
		assert.True(t, (&Error{Kind: kind}).business(), "kind %s should fold into a Result", kind)
	}

	propagated := []Kind{KindConfiguration, KindNetwork, KindMachine}
	for _, kind := range propagated {
		assert.False(t, (&Error{Kind: kind}).business(), "kind %s should propagate", kind)
	}
}

func TestLicenseOutcomeCodeFallback(t *testing.T) {
	tests := []struct {
		kind       Kind
		serverCode string
		want       string
	}{
		{KindRateLimit, "", ErrCodeRateLimited},
		{KindLicenseNotFound, "", ErrCodeNotFound},
		{KindLicenseExpired, "", ErrCodeExpired},
		{KindActivation, "", ErrCodeActivation},
		{KindLicense, "", ErrCodeLicenseError},
		{KindLicense, "SEAT_LIMIT", "SEAT_LIMIT"},
	}

	for _, tt := range tests {
		e := newLicenseOutcome(tt.kind, "msg", tt.serverCode)
		assert.Equal(t, tt.want, e.Code)
	}
}

func TestAsErrorUnwrapsChains(t *testing.T) {
	base := newNetworkError("server error", 500, "boom", nil)
	wrapped := fmt.Errorf("validate: %w", base)

	le, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, le.Kind)
	assert.Equal(t, 500, le.HTTPStatus)

	assert.True(t, IsNetwork(wrapped))
	assert.False(t, IsConfiguration(wrapped))
	assert.False(t, IsRateLimit(wrapped))

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
}

func TestNetworkErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	e := newNetworkError("request failed", 0, "", cause)

	assert.True(t, errors.Is(e, cause))
}
