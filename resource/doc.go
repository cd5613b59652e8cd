// Package resource bounds the memory, background concurrency and IO
// throughput used by aggregation and storage.
//
// A nil *Controller is valid and imposes no limits, so components can
// accept an optional controller without nil checks.
package resource
