package merge

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/mailmerge/pkg/engine"
	"github.com/dmitrymomot/mailmerge/pkg/logger"
)

// Rerenderer reloads stored jobs and recomputes their non-editable previews
// from the current (possibly hand-edited) editable content. Running it
// twice without further edits produces byte-identical output.
type Rerenderer struct {
	backend  StorageBackend
	registry *engine.Registry
	log      *slog.Logger
}

// NewRerenderer creates a Rerenderer.
func NewRerenderer(backend StorageBackend, registry *engine.Registry, log *slog.Logger) *Rerenderer {
	if log == nil {
		log = logger.NewNope()
	}
	return &Rerenderer{backend: backend, registry: registry, log: logger.Component(log, "rerender")}
}

// Run rerenders every loadable job and writes the batch back through the
// storage backend. A job whose engine cannot be resolved or whose rerender
// fails is skipped with a warning; iteration errors abort.
func (r *Rerenderer) Run(ctx context.Context) error {
	var updated []*Result
	for result, err := range r.backend.LoadResults(ctx) {
		if err != nil {
			return err
		}

		eng, err := r.resolveEngine(result)
		if err != nil {
			r.log.Warn("skipping job", slog.String("job", result.Name), slog.String("reason", err.Error()))
			continue
		}

		previews, err := eng.RerenderPreviews(result.Previews, result.Record)
		if err != nil {
			r.log.Warn("skipping job: rerender failed",
				slog.String("job", result.Name), slog.String("reason", err.Error()))
			continue
		}
		result.Previews = previews
		updated = append(updated, result)
		r.log.Info("rerendered", slog.String("job", result.Name))
	}

	if len(updated) == 0 {
		r.log.Info("nothing to rerender")
		return nil
	}
	return r.backend.StoreUpdatedResults(ctx, updated)
}

func (r *Rerenderer) resolveEngine(result *Result) (engine.TemplateEngine, error) {
	eng, err := r.registry.New(result.Engine.Name, result.Engine.Options, r.log)
	if err != nil {
		return nil, err
	}
	if err := eng.LoadTemplate(); err != nil {
		return nil, err
	}
	return eng, nil
}
