// Package merge drives the mail-merge pipeline: generate previews from a
// data source, rerender them after hand edits, and dispatch the final HTML
// through an email transport.
//
// The three stages share one unit of work, the Result (one addressed email
// with its rendered previews), and one source of truth, the StorageBackend.
// Data flows strictly forward: a stage never depends on a later one except
// through persisted backend state. Per-record and per-job failures are
// isolated so one bad record never aborts the batch, while source-level
// failures (unreadable data, unloadable template) abort the run.
package merge
