// Package sidecar is the JSON-file storage backend for merge results.
//
// Each job is persisted as its preview files plus one sidecar metadata
// document stored beside them. Preview content lives only in the preview
// files, which the sidecar references by filename, so the editable
// intermediate stays the single human-edited artifact. The sidecar
// directory is the pipeline's entire durable state: a job is "pending"
// while its sidecar sits in the root and "dispatched" once PostSendAction
// has relocated its files into the sent/ partition.
//
// Filename stems come from a Namer over the record; the scheme is the
// operator's responsibility and collisions silently overwrite. Per job,
// preview files are always written before the sidecar so a crash mid-write
// never leaves a sidecar referencing missing content. Single-operator,
// single-process access is assumed; there is no file locking.
package sidecar
