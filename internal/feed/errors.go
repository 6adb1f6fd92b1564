package feed

import (
	"errors"
	"fmt"
)

// Operation names carried by FetchError.
const (
	OpLive   = "live"
	OpSearch = "search"
)

var (
	// ErrEmptyQuery is returned by Search for a blank query.
	ErrEmptyQuery = errors.New("empty search query")

	// ErrServiceStatus means the service answered with a non-success envelope.
	ErrServiceStatus = errors.New("service reported error")
)

// FetchError is the only error kind the client produces: transport,
// timeout, HTTP status, envelope or parse failure.
type FetchError struct {
	Op         string // OpLive or OpSearch
	StatusCode int    // HTTP status, 0 if the request never completed
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("feed: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
