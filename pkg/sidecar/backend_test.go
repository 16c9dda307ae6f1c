package sidecar_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailmerge/pkg/datasource"
	"github.com/dmitrymomot/mailmerge/pkg/engine"
	"github.com/dmitrymomot/mailmerge/pkg/merge"
	"github.com/dmitrymomot/mailmerge/pkg/prompt"
	"github.com/dmitrymomot/mailmerge/pkg/sidecar"
)

func sampleResult(name, email string) *merge.Result {
	return &merge.Result{
		Record: engine.Record{"name": name, "email": email, "subject": "Hello"},
		Previews: []engine.Preview{
			{Name: "body.md", Content: "Hello " + name + "\n", Metadata: engine.Metadata{"type": "markdown"}},
			{Name: "email.html", Content: "<p>Hello " + name + "</p>\n", Metadata: engine.Metadata{"type": "html"}},
		},
		Engine: engine.Info{
			Name:    "markdown",
			Options: map[string]string{"template": "t.md", "layout": "l.html"},
		},
		AttachmentPaths: []string{"/tmp/terms.pdf"},
		Email:           merge.Envelope{To: []string{email}, Subject: "Hello"},
	}
}

func sampleData() *datasource.Data {
	return &datasource.Data{Headers: []string{"name", "email", "subject"}}
}

func loadAll(t *testing.T, backend *sidecar.Backend) []*merge.Result {
	t.Helper()
	var out []*merge.Result
	for result, err := range backend.LoadResults(context.Background()) {
		require.NoError(t, err)
		out = append(out, result)
	}
	return out
}

func TestBackend_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	backend := sidecar.New(dir, sidecar.FieldsNamer("name"), nil)

	stored := sampleResult("Alice Smith", "alice@example.com")
	require.NoError(t, backend.StoreOriginalResults(context.Background(), []*merge.Result{stored}, sampleData()))
	assert.Equal(t, "alice-smith", stored.Name)

	// One sidecar plus one file per preview.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.FileExists(t, filepath.Join(dir, "alice-smith-metadata.json"))
	assert.FileExists(t, filepath.Join(dir, "alice-smith__markdown__body.md"))
	assert.FileExists(t, filepath.Join(dir, "alice-smith__markdown__email.html"))

	loaded := loadAll(t, backend)
	require.Len(t, loaded, 1)
	got := loaded[0]
	assert.Equal(t, stored.Name, got.Name)
	assert.Equal(t, stored.Record, got.Record)
	assert.Equal(t, stored.Email, got.Email)
	assert.Equal(t, stored.Engine, got.Engine)
	assert.Equal(t, stored.AttachmentPaths, got.AttachmentPaths)
	require.Len(t, got.Previews, 2)
	for i := range stored.Previews {
		assert.Equal(t, stored.Previews[i].Name, got.Previews[i].Name)
		assert.Equal(t, stored.Previews[i].Content, got.Previews[i].Content)
		assert.Equal(t, stored.Previews[i].Metadata, got.Previews[i].Metadata)
	}
	assert.NotNil(t, got.Ref)
}

func TestBackend_StoreUpdatedResults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	backend := sidecar.New(dir, sidecar.FieldsNamer("name"), nil)
	require.NoError(t, backend.StoreOriginalResults(context.Background(),
		[]*merge.Result{sampleResult("Alice", "alice@example.com")}, sampleData()))

	loaded := loadAll(t, backend)
	require.Len(t, loaded, 1)
	loaded[0].Previews[1].Content = "<p>edited</p>\n"
	require.NoError(t, backend.StoreUpdatedResults(context.Background(), loaded))

	// Filename stem is preserved and content updated on disk.
	content, err := os.ReadFile(filepath.Join(dir, "alice__markdown__email.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>edited</p>\n", string(content))

	reloaded := loadAll(t, backend)
	require.Len(t, reloaded, 1)
	assert.Equal(t, "<p>edited</p>\n", reloaded[0].Previews[1].Content)
}

func TestBackend_StoreUpdated_RequiresRef(t *testing.T) {
	t.Parallel()

	backend := sidecar.New(t.TempDir(), sidecar.FieldsNamer("name"), nil)
	err := backend.StoreUpdatedResults(context.Background(),
		[]*merge.Result{sampleResult("Alice", "a@b.com")})
	require.ErrorIs(t, err, merge.ErrBackendRef)
}

func TestBackend_PostSendAction(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	backend := sidecar.New(dir, sidecar.FieldsNamer("name"), nil)
	require.NoError(t, backend.StoreOriginalResults(context.Background(), []*merge.Result{
		sampleResult("Alice", "alice@example.com"),
		sampleResult("Bob", "bob@example.com"),
	}, sampleData()))

	loaded := loadAll(t, backend)
	require.Len(t, loaded, 2)
	require.NoError(t, backend.PostSendAction(context.Background(), loaded[0]))

	// The dispatched job's files moved to the sent partition...
	assert.FileExists(t, filepath.Join(dir, "sent", "alice-metadata.json"))
	assert.FileExists(t, filepath.Join(dir, "sent", "alice__markdown__body.md"))
	assert.FileExists(t, filepath.Join(dir, "sent", "alice__markdown__email.html"))
	assert.NoFileExists(t, filepath.Join(dir, "alice-metadata.json"))

	// ...so a fresh scan only yields the remaining job.
	remaining := loadAll(t, backend)
	require.Len(t, remaining, 1)
	assert.Equal(t, "bob", remaining[0].Name)
}

func TestBackend_SchemaVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "old-metadata.json"),
		[]byte(`{"schemaVersion": 99, "name": "old"}`), 0o644))

	backend := sidecar.New(dir, nil, nil)
	var got error
	for _, err := range backend.LoadResults(context.Background()) {
		got = err
	}
	require.ErrorIs(t, got, sidecar.ErrSchemaVersion)
}

func TestBackend_Interactive_NamingScheme(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// The scripted answer selects the "name" field for filenames.
	prompter := &prompt.Fixed{Answers: []any{[]string{"name"}}}
	backend := sidecar.NewInteractive(dir, prompter, nil)

	result := sampleResult("Ada Lovelace", "ada@example.com")
	require.NoError(t, backend.StoreOriginalResults(context.Background(),
		[]*merge.Result{result}, sampleData()))
	assert.Equal(t, "ada-lovelace", result.Name)
}

func TestBackend_EmptyStemFallsBack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	backend := sidecar.New(dir, sidecar.FieldsNamer("missing"), nil)
	result := sampleResult("Alice", "a@b.com")
	require.NoError(t, backend.StoreOriginalResults(context.Background(),
		[]*merge.Result{result}, sampleData()))
	assert.Equal(t, "job-001", result.Name)
}
