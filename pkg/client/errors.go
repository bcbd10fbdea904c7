package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
)

// ErrorKind classifies a ServiceError.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindHTTP
	KindTransport
	KindDecoding
	KindRetriesExhausted
)

func (k ErrorKind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindTransport:
		return "transport"
	case KindDecoding:
		return "decoding"
	case KindRetriesExhausted:
		return "retries exhausted"
	default:
		return "unknown"
	}
}

// TransportCode names a connection-level failure.
type TransportCode string

const (
	CodeConnectionLost TransportCode = "connection_lost"
	CodeTimedOut       TransportCode = "timed_out"
	CodeCannotFindHost TransportCode = "cannot_find_host"
	CodeCannotConnect  TransportCode = "cannot_connect"
)

// ServiceError is the single error type returned by Executor.Do for failed
// operations. For KindRetriesExhausted, Err is the last attempt's
// *ServiceError.
type ServiceError struct {
	Kind        ErrorKind
	Status      int
	Reason      string
	Code        TransportCode
	OperationID string
	Err         error
}

func (e *ServiceError) Error() string {
	switch e.Kind {
	case KindHTTP:
		if e.Reason != "" {
			return fmt.Sprintf("client: %s: http %d %s", e.OperationID, e.Status, e.Reason)
		}
		return fmt.Sprintf("client: %s: http %d", e.OperationID, e.Status)
	case KindTransport:
		return fmt.Sprintf("client: transport %s: %v", e.Code, e.Err)
	case KindRetriesExhausted:
		return fmt.Sprintf("client: %s: retries exhausted: %v", e.OperationID, e.Err)
	default:
		return fmt.Sprintf("client: %s %s: %v", e.Kind, e.OperationID, e.Err)
	}
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by the error, looking through
// an exhausted-retries wrapper.
func (e *ServiceError) StatusCode() (int, bool) {
	switch e.Kind {
	case KindHTTP:
		return e.Status, true
	case KindRetriesExhausted:
		if last, ok := AsError(e.Err); ok {
			return last.StatusCode()
		}
	}
	return 0, false
}

// HTTPError reports a non-success response.
func HTTPError(operationID string, status int, reason string) *ServiceError {
	return &ServiceError{Kind: KindHTTP, Status: status, Reason: reason, OperationID: operationID}
}

// TransportError reports a connection-level failure.
func TransportError(code TransportCode, err error) *ServiceError {
	return &ServiceError{Kind: KindTransport, Code: code, Err: err}
}

// AsError extracts *ServiceError from an error.
func AsError(err error) (*ServiceError, bool) {
	var e *ServiceError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// classify maps an arbitrary operation error onto a ServiceError.
func classify(err error, operationID string) *ServiceError {
	if e, ok := AsError(err); ok {
		return e
	}

	var dnsErr *net.DNSError
	var netErr net.Error
	var opErr *net.OpError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &dnsErr):
		return TransportError(CodeCannotFindHost, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return TransportError(CodeTimedOut, err)
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return TransportError(CodeCannotConnect, err)
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, net.ErrClosed):
		return TransportError(CodeConnectionLost, err)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return &ServiceError{Kind: KindDecoding, OperationID: operationID, Err: err}
	default:
		return &ServiceError{Kind: KindUnknown, OperationID: operationID, Err: err}
	}
}
