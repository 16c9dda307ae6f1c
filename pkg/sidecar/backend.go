package sidecar

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/mailmerge/pkg/datasource"
	"github.com/dmitrymomot/mailmerge/pkg/engine"
	"github.com/dmitrymomot/mailmerge/pkg/logger"
	"github.com/dmitrymomot/mailmerge/pkg/merge"
	"github.com/dmitrymomot/mailmerge/pkg/prompt"
)

const (
	// partsSeparator joins stem, engine name and preview name into a
	// preview filename, e.g. "alice-smith__markdown__body.md".
	partsSeparator = "__"
	// metadataSuffix names the sidecar file for a stem.
	metadataSuffix = "-metadata.json"
	// sentDir is the partition dispatched jobs move into.
	sentDir = "sent"
)

// Backend implements merge.StorageBackend over a directory of preview
// files plus JSON sidecars.
type Backend struct {
	root    string
	namer   Namer // nil when naming is resolved per batch
	chooser func(headers []string, records []engine.Record) (Namer, error)
	log     *slog.Logger
}

// New creates a backend with a fixed naming scheme.
func New(root string, namer Namer, log *slog.Logger) *Backend {
	if log == nil {
		log = logger.NewNope()
	}
	return &Backend{root: root, namer: namer, log: logger.Component(log, "sidecar")}
}

// NewInteractive creates a backend that asks the operator for the naming
// scheme once per stored batch, after it has seen the batch's headers.
func NewInteractive(root string, prompter prompt.Prompter, log *slog.Logger) *Backend {
	if log == nil {
		log = logger.NewNope()
	}
	return &Backend{
		root: root,
		chooser: func(headers []string, records []engine.Record) (Namer, error) {
			return chooseNamer(prompter, headers, records)
		},
		log: logger.Component(log, "sidecar"),
	}
}

// Root returns the sidecar directory.
func (b *Backend) Root() string { return b.root }

// StoreOriginalResults implements merge.StorageBackend. Jobs are written
// concurrently, but within one job every preview file lands before its
// sidecar, so a crash never leaves a sidecar referencing missing content.
func (b *Backend) StoreOriginalResults(ctx context.Context, results []*merge.Result, data *datasource.Data) error {
	if err := os.MkdirAll(b.root, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	namer := b.namer
	if namer == nil {
		if b.chooser == nil {
			return fmt.Errorf("no naming scheme configured")
		}
		chosen, err := b.chooser(data.Headers, data.Records)
		if err != nil {
			return fmt.Errorf("resolving naming scheme: %w", err)
		}
		namer = chosen
	}

	eg, ctx := errgroup.WithContext(ctx)
	for i, result := range results {
		stem := slugify(namer(result.Record))
		if stem == "" {
			stem = fmt.Sprintf("job-%03d", i+1)
		}
		result.Name = stem

		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return b.writeJob(result)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	b.log.Info("batch stored", slog.Int("jobs", len(results)), slog.String("dir", b.root))
	return nil
}

// writeJob writes one job's preview files, then its sidecar.
func (b *Backend) writeJob(result *merge.Result) error {
	files := make([]fileEntry, len(result.Previews))
	for i, preview := range result.Previews {
		filename := strings.Join([]string{result.Name, result.Engine.Name, preview.Name}, partsSeparator)
		if err := os.WriteFile(filepath.Join(b.root, filename), []byte(preview.Content), 0o644); err != nil {
			return fmt.Errorf("writing preview %s: %w", filename, err)
		}
		files[i] = fileEntry{Filename: filename, Preview: preview.Name, EngineData: preview.Metadata}
	}

	doc := &document{
		SchemaVersion:   SchemaVersion,
		Name:            result.Name,
		Record:          result.Record,
		Engine:          result.Engine.Name,
		EngineOptions:   result.Engine.Options,
		Files:           files,
		Email:           result.Email,
		AttachmentPaths: result.AttachmentPaths,
	}
	return b.writeSidecar(filepath.Join(b.root, result.Name+metadataSuffix), doc)
}

// LoadResults implements merge.StorageBackend. Sidecars are enumerated
// lazily in lexical order; dispatched jobs have moved to sent/ and are
// naturally absent.
func (b *Backend) LoadResults(ctx context.Context) iter.Seq2[*merge.Result, error] {
	return func(yield func(*merge.Result, error) bool) {
		matches, err := filepath.Glob(filepath.Join(b.root, "*"+metadataSuffix))
		if err != nil {
			yield(nil, fmt.Errorf("scanning %s: %w", b.root, err))
			return
		}
		sort.Strings(matches)

		for _, path := range matches {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			result, err := b.loadJob(path)
			if err != nil {
				err = fmt.Errorf("loading %s: %w", path, err)
			}
			if !yield(result, err) {
				return
			}
		}
	}
}

// loadJob reconstructs a merge result from its sidecar plus the referenced
// preview files.
func (b *Backend) loadJob(path string) (*merge.Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := &document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("parsing sidecar: %w", err)
	}
	if doc.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaVersion, doc.SchemaVersion, SchemaVersion)
	}

	previews := make([]engine.Preview, len(doc.Files))
	for i, file := range doc.Files {
		content, err := os.ReadFile(filepath.Join(b.root, file.Filename))
		if err != nil {
			return nil, fmt.Errorf("reading preview: %w", err)
		}
		previews[i] = engine.Preview{
			Name:     file.Preview,
			Content:  string(content),
			Metadata: file.EngineData,
		}
	}

	return &merge.Result{
		Name:            doc.Name,
		Record:          doc.Record,
		Previews:        previews,
		Engine:          engine.Info{Name: doc.Engine, Options: doc.EngineOptions},
		AttachmentPaths: doc.AttachmentPaths,
		Email:           doc.Email,
		Ref:             &ref{path: path, doc: doc},
	}, nil
}

// StoreUpdatedResults implements merge.StorageBackend. Preview contents are
// rewritten under their original filenames, then each sidecar is refreshed
// with the new engine metadata.
func (b *Backend) StoreUpdatedResults(ctx context.Context, results []*merge.Result) error {
	for _, result := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		jobRef, ok := result.Ref.(*ref)
		if !ok {
			return fmt.Errorf("%w: %s", merge.ErrBackendRef, result.Name)
		}
		if len(result.Previews) != len(jobRef.doc.Files) {
			return fmt.Errorf("job %s: %d previews for %d stored files", result.Name, len(result.Previews), len(jobRef.doc.Files))
		}

		for i, preview := range result.Previews {
			file := jobRef.doc.Files[i]
			if err := os.WriteFile(filepath.Join(b.root, file.Filename), []byte(preview.Content), 0o644); err != nil {
				return fmt.Errorf("writing preview %s: %w", file.Filename, err)
			}
			jobRef.doc.Files[i].Preview = preview.Name
			jobRef.doc.Files[i].EngineData = preview.Metadata
		}

		if err := b.writeSidecar(jobRef.path, jobRef.doc); err != nil {
			return err
		}
		b.log.Debug("updated", slog.String("job", result.Name))
	}
	return nil
}

// PostSendAction implements merge.StorageBackend: relocate the job's
// preview files and sidecar into the sent/ partition so a restarted
// pipeline never reprocesses it.
func (b *Backend) PostSendAction(ctx context.Context, result *merge.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	jobRef, ok := result.Ref.(*ref)
	if !ok {
		return fmt.Errorf("%w: %s", merge.ErrBackendRef, result.Name)
	}

	sentRoot := filepath.Join(b.root, sentDir)
	if err := os.MkdirAll(sentRoot, 0o755); err != nil {
		return fmt.Errorf("creating sent partition: %w", err)
	}

	for _, file := range jobRef.doc.Files {
		if err := move(filepath.Join(b.root, file.Filename), sentRoot); err != nil {
			return err
		}
	}
	if err := move(jobRef.path, sentRoot); err != nil {
		return err
	}
	b.log.Info("job moved to sent partition", slog.String("job", result.Name))
	return nil
}

func (b *Backend) writeSidecar(path string, doc *document) error {
	raw, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding sidecar: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing sidecar %s: %w", path, err)
	}
	return nil
}

func move(path, dir string) error {
	if err := os.Rename(path, filepath.Join(dir, filepath.Base(path))); err != nil {
		return fmt.Errorf("moving %s: %w", path, err)
	}
	return nil
}
