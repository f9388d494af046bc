package station

import "fmt"

// NetworkError is a transport failure or a non-success response from the feed.
type NetworkError struct {
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("unexpected status %d from stations endpoint", e.StatusCode)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func NewNetworkError(statusCode int, err error) *NetworkError {
	return &NetworkError{
		StatusCode: statusCode,
		Err:        err,
	}
}

// ParseError means the feed answered but the payload could not be decoded.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func NewParseError(message string, err error) *ParseError {
	return &ParseError{
		Message: message,
		Err:     err,
	}
}
