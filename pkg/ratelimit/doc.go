// Package ratelimit provides client-side request throttling so SDK clients
// can stay under a service's documented rate limits instead of discovering
// them through 429 responses. Token bucket and sliding window limiters are
// provided; both block cancellably via Wait.
package ratelimit
