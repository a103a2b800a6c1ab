// Package llm provides a small client for OpenRouter-compatible chat
// completion APIs. It forces JSON-only responses, retries transient failures
// with capped exponential backoff, and tolerates the formatting quirks models
// wrap around JSON payloads.
package llm
