package dataset

import "fmt"

// FetchError covers network failures and non-success HTTP statuses on
// the dataset source. Title carries the HTML <title> of an error page
// when the origin served one instead of JSON.
type FetchError struct {
	URL        string
	StatusCode int
	Title      string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	if e.Title != "" {
		return fmt.Sprintf("fetch %s: HTTP %d (%s)", e.URL, e.StatusCode, e.Title)
	}
	return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means a payload was fetched (or read back from cache) but
// is not valid JSON or lacks the expected top-level shape.
type ParseError struct {
	Source string // "cache" or "network"
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s dataset: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
