// Package staleness decides whether a derived artifact must be rebuilt by
// comparing filesystem modification times of its inputs and output.
//
// A failed stat is never reported as an error: the artifact is treated as
// stale and the failure is logged at debug level.
package staleness
