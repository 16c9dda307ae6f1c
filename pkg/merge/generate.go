package merge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/mailmerge/pkg/datasource"
	"github.com/dmitrymomot/mailmerge/pkg/engine"
	"github.com/dmitrymomot/mailmerge/pkg/logger"
	"github.com/dmitrymomot/mailmerge/pkg/mapper"
	"github.com/dmitrymomot/mailmerge/pkg/prompt"
)

// GeneratorConfig wires the generate stage.
type GeneratorConfig struct {
	Source     datasource.DataSource
	Engine     engine.TemplateEngine
	EngineInfo engine.Info
	Mapper     mapper.Strategy
	Backend    StorageBackend
	Log        *slog.Logger

	// Attachments, when non-empty, attaches the same files to every job
	// and AttachmentColumns is ignored.
	Attachments []string
	// AttachmentColumns names source columns whose values are per-record
	// attachment paths.
	AttachmentColumns []string
	// Prompter, when set and no attachments are configured, asks the
	// operator which source columns hold attachment paths.
	Prompter prompt.Prompter
	// IncludeCCBCC makes the cc/bcc reserved fields eligible mapping targets.
	IncludeCCBCC bool
	// RenderConcurrency caps parallel record rendering. Defaults to NumCPU.
	RenderConcurrency int
}

// Generator runs the generate stage: load records, resolve the field
// mapping, render previews per record and hand the whole batch to the
// storage backend in one call.
type Generator struct {
	cfg GeneratorConfig
	log *slog.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	log := cfg.Log
	if log == nil {
		log = logger.NewNope()
	}
	if cfg.RenderConcurrency <= 0 {
		cfg.RenderConcurrency = runtime.NumCPU()
	}
	return &Generator{cfg: cfg, log: logger.Component(log, "generate")}
}

// Run executes the stage. Source and template failures are fatal; a record
// failing validation or rendering is skipped with a warning and the batch
// continues.
func (g *Generator) Run(ctx context.Context) error {
	data, err := g.cfg.Source.LoadRecords()
	if err != nil {
		return err
	}

	if err := g.cfg.Engine.LoadTemplate(); err != nil {
		return err
	}
	templateFields, err := g.cfg.Engine.ExtractFields()
	if err != nil {
		return err
	}
	g.log.Info("template fields extracted", slog.Any("fields", templateFields.Sorted()))

	// Reserved fields are always mappable, even when the template itself
	// never references them.
	eligible := make(engine.Fields, len(templateFields)+4)
	for f := range templateFields {
		eligible[f] = struct{}{}
	}
	eligible[FieldTo] = struct{}{}
	eligible[FieldSubject] = struct{}{}
	if g.cfg.IncludeCCBCC {
		eligible[FieldCC] = struct{}{}
		eligible[FieldBCC] = struct{}{}
	}

	mapping, err := g.cfg.Mapper.MapFields(eligible, data.Headers)
	if err != nil {
		return fmt.Errorf("resolving field mapping: %w", err)
	}

	if err := g.resolveAttachmentColumns(data.Headers); err != nil {
		return err
	}

	results := g.render(ctx, data, mapping)
	if len(results) == 0 {
		return ErrNoResults
	}

	g.log.Info("storing merge results", slog.Int("count", len(results)))
	return g.cfg.Backend.StoreOriginalResults(ctx, results, data)
}

// render maps, validates and renders every record. Record rendering is
// pure, so records run in parallel; order is preserved and invalid records
// leave holes that are compacted at the end.
func (g *Generator) render(ctx context.Context, data *datasource.Data, mapping mapper.Mapping) []*Result {
	slots := make([]*Result, len(data.Records))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.RenderConcurrency)
	for i, record := range data.Records {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			mapped := mapping.Apply(record, g.cfg.AttachmentColumns...)
			envelope, err := ParseEnvelope(mapped)
			if err != nil {
				g.log.Warn("skipping record", slog.Int("row", i+1), slog.String("reason", err.Error()))
				return nil
			}

			previews, err := g.cfg.Engine.RenderPreview(mapped)
			if err != nil {
				g.log.Warn("skipping record: render failed",
					slog.Int("row", i+1), slog.String("reason", err.Error()))
				return nil
			}

			slots[i] = &Result{
				Record:          mapped,
				Previews:        previews,
				Engine:          g.cfg.EngineInfo,
				AttachmentPaths: g.attachments(mapped),
				Email:           *envelope,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		g.log.Warn("rendering interrupted", slog.String("reason", err.Error()))
	}

	results := make([]*Result, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, r)
		}
	}
	return results
}

// resolveAttachmentColumns asks the operator which source columns hold
// attachment paths when nothing was configured up front.
func (g *Generator) resolveAttachmentColumns(headers []string) error {
	if g.cfg.Prompter == nil || len(g.cfg.Attachments) > 0 || len(g.cfg.AttachmentColumns) > 0 {
		return nil
	}
	columns, err := g.cfg.Prompter.MultiSelect(
		"Select CSV columns holding attachment file paths (enter for none):", headers)
	if err != nil {
		return fmt.Errorf("resolving attachment columns: %w", err)
	}
	g.cfg.AttachmentColumns = columns
	return nil
}

func (g *Generator) attachments(record engine.Record) []string {
	if len(g.cfg.Attachments) > 0 {
		return g.cfg.Attachments
	}
	var paths []string
	for _, column := range g.cfg.AttachmentColumns {
		if v := record[column]; v != "" {
			paths = append(paths, v)
		}
	}
	return paths
}
