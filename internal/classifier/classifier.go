package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// Image carries an inline image forwarded to the backend. Data is the
// base64-encoded payload; the pipeline never inspects it.
type Image struct {
	MimeType string
	Data     string
}

// Input is the classification request.
type Input struct {
	Text  string
	Image *Image
}

// Classifier is the port to an external text/image classification backend.
// Implementations must be safe for concurrent use and must not mutate any
// store. The returned Classification is raw backend output; callers pass it
// through the policy layer before use.
type Classifier interface {
	Classify(ctx context.Context, input Input) (*domain.Classification, error)
}

// ErrorKind distinguishes classifier failure modes.
type ErrorKind int

const (
	// KindTransient covers timeouts, rate limits and backend outages.
	// Callers may retry or fall back to defaults.
	KindTransient ErrorKind = iota
	// KindMalformed covers responses missing required fields or with an
	// unparseable shape. Callers must fall back, not retry.
	KindMalformed
	// KindAuth covers credential or configuration failures. Fatal.
	KindAuth
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindMalformed:
		return "malformed"
	case KindAuth:
		return "auth"
	}
	return "unknown"
}

// Error is the typed failure returned by classifier backends.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classifier %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("classifier %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the error kind; ok is false for non-classifier errors.
func KindOf(err error) (ErrorKind, bool) {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind, true
	}
	return 0, false
}

// IsAuthFailure reports whether err is a fatal credential/config failure.
func IsAuthFailure(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindAuth
}
