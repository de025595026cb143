package adapter

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var (
	// ErrNotFound matches a *StatusError with status 404.
	ErrNotFound = errors.New("adapter: not found")

	// ErrInFlight is returned when a relationship already has an
	// outstanding update request.
	ErrInFlight = errors.New("adapter: relationship update already in flight")

	// ErrNotPersisted is returned when updating or deleting a record
	// without an id.
	ErrNotPersisted = errors.New("adapter: record has no id")
)

// StatusError reports a non-2xx API response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("adapter: %s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if d := e.Detail(); d != "" {
		msg += ": " + d
	}
	return msg
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Detail returns the first JSON:API error detail in the response body.
func (e *StatusError) Detail() string {
	return gjson.GetBytes(e.Body, "errors.0.detail").String()
}

// RelationshipError wraps the failure of one relationship update.
type RelationshipError struct {
	Relationship string
	Err          error
}

func (e *RelationshipError) Error() string {
	return fmt.Sprintf("adapter: update relationship %q: %v", e.Relationship, e.Err)
}

func (e *RelationshipError) Unwrap() error { return e.Err }
