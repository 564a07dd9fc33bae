package licensegate

import (
	"errors"
	"fmt"
)

// Kind identifies the failure category of an Error. Business kinds
// (License, RateLimit, LicenseNotFound, LicenseExpired, Activation) are
// folded into a Result by the Client; the remaining kinds propagate to
// the caller as returned errors.
type Kind int

const (
	KindConfiguration Kind = iota
	KindNetwork
	KindLicense
	KindRateLimit
	KindLicenseNotFound
	KindLicenseExpired
	KindActivation
	KindMachine
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNetwork:
		return "network"
	case KindLicense:
		return "license"
	case KindRateLimit:
		return "rate_limit"
	case KindLicenseNotFound:
		return "license_not_found"
	case KindLicenseExpired:
		return "license_expired"
	case KindActivation:
		return "activation"
	case KindMachine:
		return "machine"
	default:
		return "unknown"
	}
}

// Error codes for license operations
const (
	ErrCodeInvalidConfig = "INVALID_CONFIGURATION"
	ErrCodeNetworkError  = "NETWORK_ERROR"
	ErrCodeRateLimited   = "RATE_LIMIT_EXCEEDED"
	ErrCodeNotFound      = "LICENSE_NOT_FOUND"
	ErrCodeExpired       = "LICENSE_EXPIRED"
	ErrCodeActivation    = "ACTIVATION_FAILED"
	ErrCodeMachineError  = "MACHINE_ERROR"
	ErrCodeLicenseError  = "LICENSE_ERROR"
)

// Error is the typed failure produced by license operations. Errors are
// values: each call builds its own and never shares it.
type Error struct {
	Kind       Kind
	Message    string
	Code       string
	RetryAfter int    // seconds; 0 when the server supplied none
	HTTPStatus int    // set on transport-level failures only
	Body       string // raw response body, transport-level failures only
	Err        error  // underlying cause, when one exists
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// business reports whether the error represents an expected license
// outcome that the Client converts into a Result instead of returning.
func (e *Error) business() bool {
	switch e.Kind {
	case KindLicense, KindRateLimit, KindLicenseNotFound, KindLicenseExpired, KindActivation:
		return true
	}
	return false
}

func newConfigurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message, Code: ErrCodeInvalidConfig}
}

func newNetworkError(message string, status int, body string, cause error) *Error {
	return &Error{
		Kind:       KindNetwork,
		Message:    message,
		Code:       ErrCodeNetworkError,
		HTTPStatus: status,
		Body:       body,
		Err:        cause,
	}
}

func newMachineError(message string) *Error {
	return &Error{Kind: KindMachine, Message: message, Code: ErrCodeMachineError}
}

// newLicenseOutcome builds a business-level error. The server's own
// error code wins over the canonical fallback when it supplied one.
func newLicenseOutcome(kind Kind, message, serverCode string) *Error {
	code := serverCode
	if code == "" {
		switch kind {
		case KindRateLimit:
			code = ErrCodeRateLimited
		case KindLicenseNotFound:
			code = ErrCodeNotFound
		case KindLicenseExpired:
			code = ErrCodeExpired
		case KindActivation:
			code = ErrCodeActivation
		default:
			code = ErrCodeLicenseError
		}
	}
	return &Error{Kind: kind, Message: message, Code: code}
}

// AsError unpacks a *licensegate.Error from err, if one is in the chain.
func AsError(err error) (*Error, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}

// IsConfiguration reports whether err is a configuration failure.
func IsConfiguration(err error) bool {
	le, ok := AsError(err)
	return ok && le.Kind == KindConfiguration
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	le, ok := AsError(err)
	return ok && le.Kind == KindNetwork
}

// IsRateLimit reports whether err is a rate-limit rejection.
func IsRateLimit(err error) bool {
	le, ok := AsError(err)
	return ok && le.Kind == KindRateLimit
}
