package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies provider failures.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindAuth
	KindRateLimit
	KindTemporary
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	case KindTemporary:
		return "temporary"
	default:
		return "other"
	}
}

// APIError is returned by providers when the remote API rejects a call.
type APIError struct {
	Provider   string
	StatusCode int
	Kind       ErrorKind
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s api error (%s, status %d): %s", e.Provider, e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s api error (%s): %s", e.Provider, e.Kind, msg)
}

func (e *APIError) Unwrap() error { return e.Err }

// KindForStatus maps an HTTP status code to an ErrorKind.
func KindForStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusTooManyRequests, code == http.StatusPaymentRequired:
		return KindRateLimit
	case code >= 500:
		return KindTemporary
	default:
		return KindOther
	}
}

// IsFallbackEligible reports whether err should be retried against the
// secondary credential: authentication, rate-limit and quota failures.
func IsFallbackEligible(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind == KindAuth || apiErr.Kind == KindRateLimit
}
