package extractor

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrParseFailure    = errors.New("failed to parse document")
)

// Error is the only error type Extract returns. Kind is ErrUnsupportedType or
// ErrParseFailure; Detail carries the declared type or the decoder's message.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// KindName returns a stable label for err's kind, or "" if err did not come
// from the extractor.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedType):
		return "unsupported_type"
	case errors.Is(err, ErrParseFailure):
		return "parse_failure"
	default:
		return ""
	}
}

func unsupported(mime string) error {
	return &Error{Kind: ErrUnsupportedType, Detail: mime}
}

func parseFailure(err error) error {
	return &Error{Kind: ErrParseFailure, Detail: err.Error()}
}
