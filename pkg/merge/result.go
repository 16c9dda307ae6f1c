package merge

import (
	"context"
	"iter"

	"github.com/dmitrymomot/mailmerge/pkg/datasource"
	"github.com/dmitrymomot/mailmerge/pkg/engine"
)

// Result is the unit of work: one record's complete rendering and delivery
// state. Created by the generate stage, previews mutated in place by the
// rerender stage, consumed (never mutated) by dispatch, which instead
// mutates persisted state through the StorageBackend.
type Result struct {
	// Name is the job's human identifier (also its on-disk filename stem).
	// Assigned by the storage backend when the result is first stored.
	Name string

	// Record is the mapped record the previews were rendered from.
	Record engine.Record

	// Previews are the rendered artifacts, editable intermediate first for
	// the two-stage engines.
	Previews []engine.Preview

	// Engine identifies how to reconstruct the engine for rerender/dispatch.
	Engine engine.Info

	// AttachmentPaths are files to attach at dispatch time.
	AttachmentPaths []string

	// Email is the validated addressing block.
	Email Envelope

	// Ref is an opaque handle set by the storage backend at load time.
	// Callers pass it back unchanged; only the sidecar file is
	// authoritative across restarts.
	Ref any
}

// StorageBackend owns the durable representation of merge results. Jobs
// move through generated → (rerendered)* → dispatched; a dispatched job is
// excluded from future LoadResults scans, which is the pipeline's whole
// resume mechanism.
type StorageBackend interface {
	// StoreOriginalResults persists a freshly generated batch. The backend
	// derives a consistent naming scheme from the whole batch and assigns
	// each result's Name.
	StoreOriginalResults(ctx context.Context, results []*Result, data *datasource.Data) error

	// LoadResults lazily enumerates every not-yet-dispatched job. An
	// iteration error is critical: callers should stop and propagate it.
	LoadResults(ctx context.Context) iter.Seq2[*Result, error]

	// StoreUpdatedResults overwrites preview contents and sidecar metadata
	// for previously loaded results, preserving filename stems.
	StoreUpdatedResults(ctx context.Context, results []*Result) error

	// PostSendAction marks one job as dispatched so it is never reloaded.
	// Invoked once per successfully delivered job, immediately after the
	// transport accepts it.
	PostSendAction(ctx context.Context, result *Result) error
}
