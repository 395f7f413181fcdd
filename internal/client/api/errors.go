package api

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies transport failures. Every network-origin error funnels
// into exactly one Kind at the transport boundary.
type Kind string

const (
	KindTimeout        Kind = "timeout"
	KindConnection     Kind = "connection_error"
	KindBadResponse    Kind = "bad_response"
	KindCancelled      Kind = "cancelled"
	KindBadCertificate Kind = "bad_certificate"
	KindUnknown        Kind = "unknown"
)

// Error is the transport-level error. Status is set only for
// KindBadResponse; Message is human-readable, extracted from the response
// body when the backend provided one.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Kind == KindBadResponse {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// IsUnauthorized reports whether err is a transport error with HTTP 401.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// errorBody matches the backend's JSON error envelope. FastAPI-style
// backends use "detail"; others use "message".
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

// newStatusError maps a non-2xx response to an Error, pulling a
// human-readable message out of the body when one is present.
func newStatusError(status int, body []byte) *Error {
	msg := messageFromBody(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Kind: KindBadResponse, Status: status, Message: msg}
}

func messageFromBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if eb.Message != "" {
		return eb.Message
	}
	// "detail" may be a string or a structured validation payload; only a
	// plain string is usable as a message.
	var detail string
	if json.Unmarshal(eb.Detail, &detail) == nil {
		return detail
	}
	return ""
}

// classify maps a low-level send failure onto the taxonomy.
func classify(err error) *Error {
	switch {
	case errors.Is(err, context.Canceled):
		return &Error{Kind: KindCancelled, Message: "request cancelled", cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Message: "request timed out", cause: err}
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return &Error{Kind: KindBadCertificate, Message: "server certificate could not be verified", cause: err}
	}
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	if errors.As(err, &unknownAuthority) || errors.As(err, &hostnameErr) {
		return &Error{Kind: KindBadCertificate, Message: "server certificate could not be verified", cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: "request timed out", cause: err}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &Error{Kind: KindConnection, Message: "could not reach server", cause: err}
	}

	return &Error{Kind: KindUnknown, Message: err.Error(), cause: err}
}
