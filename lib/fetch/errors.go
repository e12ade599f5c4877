package fetch

import "errors"

// ErrUnsupportedSource is returned for sources that are neither http(s) URLs
// nor file paths.
var ErrUnsupportedSource = errors.New("unsupported source")

type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
