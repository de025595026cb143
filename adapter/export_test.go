package adapter

import (
	"context"
	"errors"
	"sync"
)

var errNoRoute = errors.New("mock: no route")

// TestTransport is a mock Transport that records issued requests and
// answers from a table of routes keyed by "METHOD URL".
// Exported for use in adapter_test package.
type TestTransport struct {
	mu       sync.Mutex
	Routes   map[string]TestRoute
	Requests []Request
}

// TestRoute is a canned answer. Err takes precedence over Body.
type TestRoute struct {
	Body []byte
	Err  error
	// OnRequest, when set, runs after the request is recorded and before
	// Wait.
	OnRequest func()
	// Wait, when set, blocks the request until it is closed.
	Wait <-chan struct{}
}

// NewTestTransport creates a TestTransport with no routes.
func NewTestTransport() *TestTransport {
	return &TestTransport{Routes: make(map[string]TestRoute)}
}

// Handle registers a route.
func (tt *TestTransport) Handle(method, url string, r TestRoute) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.Routes[method+" "+url] = r
}

func (tt *TestTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	tt.mu.Lock()
	tt.Requests = append(tt.Requests, *req)
	r, ok := tt.Routes[req.Method+" "+req.URL]
	tt.mu.Unlock()

	if !ok {
		return nil, errNoRoute
	}
	if r.OnRequest != nil {
		r.OnRequest()
	}
	if r.Wait != nil {
		select {
		case <-r.Wait:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return &Response{StatusCode: 200, Body: r.Body}, nil
}

var _ Transport = (*TestTransport)(nil)

// Sent returns a copy of the recorded requests.
func (tt *TestTransport) Sent() []Request {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	return append([]Request(nil), tt.Requests...)
}

// SentTo returns the recorded requests for one "METHOD URL" key.
func (tt *TestTransport) SentTo(method, url string) []Request {
	var out []Request
	for _, r := range tt.Sent() {
		if r.Method == method && r.URL == url {
			out = append(out, r)
		}
	}
	return out
}
