package markdown

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"os"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/dmitrymomot/mailmerge/pkg/engine"
	"github.com/dmitrymomot/mailmerge/pkg/logger"
)

// Name is the registry key for this engine.
const Name = "markdown"

// Engine option keys.
const (
	OptionTemplate = "template" // path to the markdown template
	OptionLayout   = "layout"   // path to the HTML wrapper template
)

// Preview metadata: the "type" key disambiguates the editable intermediate
// from the final sendable form.
const (
	MetaType     = "type"
	TypeMarkdown = "markdown"
	TypeHTML     = "html"
)

// Default preview names within a job.
const (
	PreviewBody = "body.md"
	PreviewHTML = "email.html"
)

// Engine is the markdown+wrapper template engine. Construct via New or
// through an engine.Registry; call LoadTemplate before anything else.
type Engine struct {
	templatePath string
	layoutPath   string
	log          *slog.Logger
	md           goldmark.Markdown

	// set by LoadTemplate
	body   *texttemplate.Template
	layout *htmltemplate.Template
	meta   map[string]any
}

// New creates an engine reading the markdown template and HTML layout from
// the given paths.
func New(templatePath, layoutPath string, log *slog.Logger) *Engine {
	if log == nil {
		log = logger.NewNope()
	}
	return &Engine{
		templatePath: templatePath,
		layoutPath:   layoutPath,
		log:          logger.Component(log, "engine.markdown"),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		),
	}
}

// Factory adapts New to the engine.Factory signature, reading paths from
// the persisted engine options.
func Factory(options map[string]string, log *slog.Logger) (engine.TemplateEngine, error) {
	templatePath, ok := options[OptionTemplate]
	if !ok || templatePath == "" {
		return nil, fmt.Errorf("%w: missing %q", engine.ErrInvalidOptions, OptionTemplate)
	}
	layoutPath, ok := options[OptionLayout]
	if !ok || layoutPath == "" {
		return nil, fmt.Errorf("%w: missing %q", engine.ErrInvalidOptions, OptionLayout)
	}
	return New(templatePath, layoutPath, log), nil
}

// Options returns the option map that reconstructs this engine via Factory.
func (e *Engine) Options() map[string]string {
	return map[string]string{
		OptionTemplate: e.templatePath,
		OptionLayout:   e.layoutPath,
	}
}

// LoadTemplate reads and parses both the markdown template and the layout.
func (e *Engine) LoadTemplate() error {
	raw, err := os.ReadFile(e.templatePath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", engine.ErrTemplateLoad, e.templatePath, err)
	}
	src, err := parseSource(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", engine.ErrTemplateLoad, e.templatePath, err)
	}
	body, err := texttemplate.New("body").Option("missingkey=zero").Parse(src.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", engine.ErrTemplateLoad, e.templatePath, err)
	}

	rawLayout, err := os.ReadFile(e.layoutPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", engine.ErrTemplateLoad, e.layoutPath, err)
	}
	layout, err := htmltemplate.New("layout").Parse(string(rawLayout))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", engine.ErrTemplateLoad, e.layoutPath, err)
	}

	e.body = body
	e.layout = layout
	e.meta = src.Metadata
	e.log.Debug("template loaded", slog.String("template", e.templatePath), slog.String("layout", e.layoutPath))
	return nil
}

// ExtractFields returns the record fields referenced by the markdown
// template. The layout is excluded on purpose: it only sees the rendered
// content and frontmatter metadata.
func (e *Engine) ExtractFields() (engine.Fields, error) {
	if e.body == nil {
		return nil, engine.ErrNotLoaded
	}
	return listFields(e.body), nil
}

// RenderPreview renders the record into the editable markdown intermediate
// and the final wrapped HTML.
func (e *Engine) RenderPreview(record engine.Record) ([]engine.Preview, error) {
	if e.body == nil {
		return nil, engine.ErrNotLoaded
	}

	var markdown bytes.Buffer
	if err := e.body.Execute(&markdown, record); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrRender, err)
	}

	html, err := e.wrap(markdown.String(), record)
	if err != nil {
		return nil, err
	}

	return []engine.Preview{
		{
			Name:     PreviewBody,
			Content:  markdown.String(),
			Metadata: engine.Metadata{MetaType: TypeMarkdown},
		},
		{
			Name:     PreviewHTML,
			Content:  html,
			Metadata: engine.Metadata{MetaType: TypeHTML},
		},
	}, nil
}

// RerenderPreviews recomputes the HTML previews from the current content of
// the editable markdown preview. The markdown preview passes through
// untouched, so hand edits survive and the result is idempotent.
func (e *Engine) RerenderPreviews(previews []engine.Preview, record engine.Record) ([]engine.Preview, error) {
	if e.body == nil {
		return nil, engine.ErrNotLoaded
	}

	editable := ""
	found := false
	for _, p := range previews {
		role, err := previewType(p)
		if err != nil {
			return nil, err
		}
		if role == TypeMarkdown {
			editable = p.Content
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: no editable markdown preview", engine.ErrMissingMetadata)
	}

	html, err := e.wrap(editable, record)
	if err != nil {
		return nil, err
	}

	out := make([]engine.Preview, len(previews))
	for i, p := range previews {
		out[i] = p
		if role, _ := previewType(p); role == TypeHTML {
			out[i].Content = html
		}
	}
	return out, nil
}

// HTMLToSend returns the final-form preview's content. Selection only.
func (e *Engine) HTMLToSend(previews []engine.Preview, _ engine.Record) (string, error) {
	for _, p := range previews {
		role, err := previewType(p)
		if err != nil {
			return "", err
		}
		if role == TypeHTML {
			return p.Content, nil
		}
	}
	return "", fmt.Errorf("%w: no final-form HTML preview", engine.ErrMissingMetadata)
}

// wrap converts markdown to HTML and embeds it into the layout.
func (e *Engine) wrap(markdown string, record engine.Record) (string, error) {
	var fragment bytes.Buffer
	if err := e.md.Convert([]byte(markdown), &fragment); err != nil {
		return "", fmt.Errorf("%w: markdown conversion: %v", engine.ErrRender, err)
	}

	var html bytes.Buffer
	data := map[string]any{
		"Content": htmltemplate.HTML(fragment.String()),
		"Meta":    e.meta,
		"Record":  record,
	}
	if err := e.layout.Execute(&html, data); err != nil {
		return "", fmt.Errorf("%w: layout execution: %v", engine.ErrRender, err)
	}
	return html.String(), nil
}

func previewType(p engine.Preview) (string, error) {
	raw, ok := p.Metadata[MetaType]
	if !ok {
		return "", fmt.Errorf("%w: preview %q has no %q key", engine.ErrMissingMetadata, p.Name, MetaType)
	}
	role, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: preview %q has non-string %q", engine.ErrMissingMetadata, p.Name, MetaType)
	}
	return role, nil
}
