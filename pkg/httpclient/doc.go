// Package httpclient provides the resilient HTTP core that generated API
// clients build on. It owns URL construction, header and query parameter
// merging, classification of failures into the error taxonomy, and the
// retry loop around each request.
//
// A single attempt is made by Request; Do and the verb helpers (Get, Post,
// Put, Patch, Delete) wrap the attempt in the configured retry policy.
// Classification is centralized here so every caller sees the same typed
// errors: 404 becomes a not-found error, 429 a rate-limit error carrying
// the server's Retry-After hint, a 5xx with Retry-After an unavailable
// error, and anything else a plain API error with the code and message
// pulled from the response body.
package httpclient
