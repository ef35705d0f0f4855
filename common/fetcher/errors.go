package fetcher

import (
	"errors"
	"fmt"
)

// Fetch failure kinds. A *FetchError unwraps to exactly one of them.
var (
	ErrPolicyDenied = errors.New("policy denied")
	ErrTransport    = errors.New("transport failure")
	ErrParse        = errors.New("parse failure")
)

// FetchError describes why a page could not be fetched.
type FetchError struct {
	Kind error
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ErrPolicyDenied:
		return fmt.Sprintf("Scraping not allowed by robots.txt: %s", e.URL)
	case ErrParse:
		return fmt.Sprintf("Failed to parse %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("Failed to fetch %s: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func policyDenied(url string) error {
	return &FetchError{Kind: ErrPolicyDenied, URL: url}
}

func transportFailure(url string, err error) error {
	return &FetchError{Kind: ErrTransport, URL: url, Err: err}
}

func parseFailure(url string, err error) error {
	return &FetchError{Kind: ErrParse, URL: url, Err: err}
}
