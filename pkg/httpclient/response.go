package httpclient

import (
	"encoding/json"
	"net/http"

	errs "jokesdk/pkg/errors"
)

// requestIDHeader is the response header surfaced as Response.RequestID
const requestIDHeader = "X-Request-ID"

// Response wraps a raw HTTP response. The body is fully read and the
// underlying connection released before a Response is handed out.
type Response struct {
	StatusCode int
	// Headers are the response headers; lookups are case-insensitive
	Headers http.Header
	Body    []byte
	// Text is the decoded form of Body
	Text string
	URL  string
	// RequestID is the server-assigned request id, if the response carried one
	RequestID string
}

// newResponse builds a Response from a raw result and its drained body
func newResponse(raw *http.Response, body []byte, url string) *Response {
	return &Response{
		StatusCode: raw.StatusCode,
		Headers:    raw.Header,
		Body:       body,
		Text:       string(body),
		URL:        url,
		RequestID:  raw.Header.Get(requestIDHeader),
	}
}

// JSON parses the response body into v. The body is decoded lazily, only
// when a caller asks for structured content.
func (r *Response) JSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errs.NewParse("response is not valid JSON", err)
	}
	return nil
}

// IsSuccess reports whether the status is in the 2xx range
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsClientError reports whether the status is in the 4xx range
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError reports whether the status is 5xx or above
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}
