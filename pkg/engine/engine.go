package engine

import "sort"

// Record is one row of the data source: field name to scalar value.
// Keys are data-source headers until mapped, template field names after.
// Records are treated as immutable once rendered.
type Record map[string]string

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Metadata is the engine-defined bag attached to each preview. It must be
// JSON-serializable: it is persisted in the sidecar file (minus content)
// and handed back to the engine on rerender and dispatch.
type Metadata map[string]any

// Preview is one rendered artifact for a job. Name is unique within the
// job; Content is renderable text (markdown, HTML).
type Preview struct {
	Name     string
	Content  string
	Metadata Metadata
}

// Info identifies the engine that produced a job's previews, with the
// options needed to reconstruct it. Persisted in the sidecar so rerender
// and dispatch can resolve the same engine later.
type Info struct {
	Name    string            `json:"name"`
	Options map[string]string `json:"options"`
}

// Fields is a set of template field names.
type Fields map[string]struct{}

// Sorted returns the field names in lexical order, for stable logs and prompts.
func (f Fields) Sorted() []string {
	out := make([]string, 0, len(f))
	for name := range f {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// TemplateEngine renders mapped records into previews and previews into
// final sendable HTML. LoadTemplate must be called before any other
// method; other methods return ErrNotLoaded otherwise.
type TemplateEngine interface {
	// LoadTemplate reads the configured template source(s) into memory.
	// Returns an error wrapping ErrTemplateLoad if any source is missing
	// or unparsable.
	LoadTemplate() error

	// ExtractFields statically scans the loaded template and returns the
	// set of distinct field names it references. No I/O.
	ExtractFields() (Fields, error)

	// RenderPreview renders one mapped record into previews. Deterministic
	// for a given loaded template and record; must not mutate the record.
	RenderPreview(record Record) ([]Preview, error)

	// RerenderPreviews recomputes the non-editable previews from the
	// (possibly hand-edited) editable preview content. Output has the same
	// length and order as the input; only non-editable previews change.
	RerenderPreviews(previews []Preview, record Record) ([]Preview, error)

	// HTMLToSend selects the HTML that should actually be emailed from
	// already-rendered previews. Pure selection; never re-renders.
	HTMLToSend(previews []Preview, record Record) (string, error)
}
