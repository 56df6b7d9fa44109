// Package retry provides exponential backoff retry logic for transient failures.
//
// The [Do] function retries an operation with configurable attempts,
// initial delay, and maximum delay. It is used for Hetzner Cloud API calls,
// SSH dialing during cluster bootstrap, and other operations that may fail
// transiently. [Permanent] marks errors that must not be retried.
package retry
