package relay

import (
	"errors"
	"fmt"

	"github.com/bobmcallan/contentflow-mcp/internal/catalog"
)

// Kind classifies a relay failure.
type Kind string

const (
	KindUnknownOperation Kind = "UnknownOperation"
	KindInvalidArgument  Kind = "InvalidArgument"
	KindTransport        Kind = "TransportFailure"
	KindTimeout          Kind = "Timeout"
	KindDownstream       Kind = "DownstreamError"
)

// Sentinels for errors.Is. The first two are shared with the catalog so a
// binding error matches whichever package the caller checks against.
var (
	ErrUnknownOperation = catalog.ErrUnknownOperation
	ErrInvalidArgument  = catalog.ErrInvalidArgument
	ErrTransport        = errors.New("transport failure")
	ErrTimeout          = errors.New("timeout")
	ErrDownstream       = errors.New("downstream error")
)

// maxExcerpt bounds the response body quoted in a DownstreamError.
const maxExcerpt = 256

// Error is returned by every failed invocation.
type Error struct {
	Kind Kind
	Op   string

	// Status is the downstream HTTP status, when one was received.
	Status int

	// Excerpt is the start of an unusable response body.
	Excerpt string

	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Excerpt != "" {
		msg += fmt.Sprintf(": body %q", e.Excerpt)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of e's kind. A timeout is also a transport
// failure.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnknownOperation:
		return e.Kind == KindUnknownOperation
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrTransport:
		return e.Kind == KindTransport || e.Kind == KindTimeout
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrDownstream:
		return e.Kind == KindDownstream
	}
	return false
}

// KindOf returns the kind of a relay error, or "" for any other error.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func excerpt(body []byte) string {
	if len(body) <= maxExcerpt {
		return string(body)
	}
	return string(body[:maxExcerpt]) + "..."
}
