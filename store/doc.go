// Package store persists benchmark records as newline-delimited JSON.
//
// The file is append-only: every Append is one write on a file opened with
// O_APPEND, so a crash mid-run never corrupts earlier records and reruns
// accumulate next to older results.
package store
