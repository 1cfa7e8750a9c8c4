package entity

import (
	"errors"
	"fmt"
)

// FailureKind classifies why an upstream lookup produced no usable data.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureTimeout
	FailureNetwork
	FailureRateLimited
	FailureUpstream
	FailureParse
	// FailureAbsent is a valid "no data" signal, not an error condition.
	FailureAbsent
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureTimeout:
		return "timeout"
	case FailureNetwork:
		return "network_error"
	case FailureRateLimited:
		return "rate_limited"
	case FailureUpstream:
		return "upstream_error"
	case FailureParse:
		return "parse_error"
	case FailureAbsent:
		return "absent"
	}
	return fmt.Sprintf("failure(%d)", int(k))
}

// FetchError carries a classified upstream failure.
type FetchError struct {
	Kind   FailureKind
	Status int
	URL    string
	Err    error
}

func (e *FetchError) Error() string {
	msg := e.Kind.String()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.URL != "" {
		msg += " from " + e.URL
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError builds a FetchError.
func NewFetchError(kind FailureKind, status int, url string, err error) *FetchError {
	return &FetchError{Kind: kind, Status: status, URL: url, Err: err}
}

// ErrAbsent marks a lookup that succeeded but returned nothing usable.
var ErrAbsent = &FetchError{Kind: FailureAbsent}

// KindOf classifies err. Unclassified errors count as network failures.
func KindOf(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return FailureNetwork
}

// StatusError classifies a non-2xx HTTP status.
func StatusError(status int, url string) *FetchError {
	if status == 429 {
		return NewFetchError(FailureRateLimited, status, url, nil)
	}
	return NewFetchError(FailureUpstream, status, url, nil)
}
