// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// FeedFetch caps the initial inbox fetch performed when a notification
// feed starts.
const FeedFetch = 3 * time.Second

// MarkRead caps a single read-state persistence attempt.
const MarkRead = 2 * time.Second
