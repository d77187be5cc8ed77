// Package jokes is a client for the Sample APIs jokes service, built on the
// resilient HTTP core. The upstream service exposes a single listing
// endpoint, so by-id lookup, search, and clean-only filtering all run on the
// client after fetching the full collection.
package jokes
