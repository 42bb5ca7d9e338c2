package market

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamRejected    = errors.New("upstream rejected the request")
	ErrMalformedResponse   = errors.New("malformed upstream response")
	ErrUnsupportedSymbol   = errors.New("unsupported symbol")
)

// ErrorKind classifies upstream failures
type ErrorKind int

const (
	// KindUnavailable: network or transport failure
	KindUnavailable ErrorKind = iota
	// KindRejected: the upstream answered with a non-2xx status
	KindRejected
	// KindMalformed: the payload did not have the expected shape
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindMalformed:
		return "malformed"
	default:
		return "unavailable"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindRejected:
		return ErrUpstreamRejected
	case KindMalformed:
		return ErrMalformedResponse
	default:
		return ErrUpstreamUnavailable
	}
}

// FetchError is returned by the client for every upstream failure.
// errors.Is matches it against the sentinel of its kind.
type FetchError struct {
	Kind       ErrorKind
	Symbol     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == KindRejected {
		return fmt.Sprintf("fetching %s: %v (status %d): %v", e.Symbol, e.Kind.sentinel(), e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetching %s: %v: %v", e.Symbol, e.Kind.sentinel(), e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// RateLimited reports whether the upstream answered 429
func (e *FetchError) RateLimited() bool {
	return e.Kind == KindRejected && e.StatusCode == http.StatusTooManyRequests
}

// IsRateLimited reports whether err is a rate-limit rejection
func IsRateLimited(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr) && fetchErr.RateLimited()
}

// Kind returns the failure kind of err, if it is a FetchError
func Kind(err error) (ErrorKind, bool) {
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		return 0, false
	}
	return fetchErr.Kind, true
}
