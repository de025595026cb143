package adapter

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// MediaType is the JSON:API media type sent and accepted by HTTPTransport.
const MediaType = "application/vnd.api+json"

// Request is a single outbound API call.
type Request struct {
	Method string
	URL    string
	Body   []byte
}

// Response is the result of a successful (2xx) API call.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport issues API calls. HTTPTransport is the production
// implementation; tests substitute their own.
// Implementations must be safe for concurrent use.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Logger is the interface for request logging.
type Logger interface {
	Log(ctx context.Context, method, url string, body []byte)
}

// Authorizer decorates outgoing requests with credentials.
type Authorizer interface {
	Authorize(ctx context.Context, req *http.Request) error
}

// TokenAuthorizer sends a bearer token. An empty token sends nothing.
type TokenAuthorizer string

func (t TokenAuthorizer) Authorize(_ context.Context, req *http.Request) error {
	if t != "" {
		req.Header.Set("Authorization", "Bearer "+string(t))
	}
	return nil
}

// HTTPTransport wraps *http.Client and satisfies Transport.
type HTTPTransport struct {
	client *http.Client
	auth   Authorizer
}

// NewHTTPTransport wraps client. auth may be nil.
func NewHTTPTransport(client *http.Client, auth Authorizer) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client, auth: auth}
}

// Do sends req. Non-2xx responses are returned as *StatusError.
func (t *HTTPTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, errors.Wrap(err, "adapter: build request")
	}
	httpReq.Header.Set("Accept", MediaType)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", MediaType)
	}
	if t.auth != nil {
		if err := t.auth.Authorize(ctx, httpReq); err != nil {
			return nil, errors.Wrap(err, "adapter: authorize")
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err //nolint:wrapcheck // *url.Error already names method and URL
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "adapter: read %s %s", req.Method, req.URL)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: resp.StatusCode,
			Body:       data,
		}
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
