package sidecar

import (
	"errors"

	"github.com/dmitrymomot/mailmerge/pkg/engine"
	"github.com/dmitrymomot/mailmerge/pkg/merge"
)

// SchemaVersion is the current sidecar document version. This file format
// is the system's only durable state, so it carries an explicit version
// for future migrations; loading any other version fails loudly.
const SchemaVersion = 1

// ErrSchemaVersion indicates a sidecar document with an unsupported version.
var ErrSchemaVersion = errors.New("unsupported sidecar schema version")

// document is the on-disk sidecar schema: one JSON file per job.
type document struct {
	SchemaVersion   int               `json:"schemaVersion"`
	Name            string            `json:"name"`
	Record          engine.Record     `json:"record"`
	Engine          string            `json:"engine"`
	EngineOptions   map[string]string `json:"engineOptions"`
	Files           []fileEntry       `json:"files"`
	Email           merge.Envelope    `json:"email"`
	AttachmentPaths []string          `json:"attachmentPaths,omitempty"`
}

// fileEntry references one preview file. Content is deliberately absent:
// it lives in the referenced file, never duplicated in the sidecar.
type fileEntry struct {
	Filename   string          `json:"filename"`
	Preview    string          `json:"preview"` // preview name within the job
	EngineData engine.Metadata `json:"engineData,omitempty"`
}

// ref is the opaque backend handle attached to loaded merge results.
type ref struct {
	path string // sidecar file path
	doc  *document
}
