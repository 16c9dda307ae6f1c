// Package engine defines the template engine contract for the mail-merge
// pipeline.
//
// A TemplateEngine turns one mapped record into one or more named preview
// artifacts. Engines are polymorphic: the pipeline only depends on the
// interface here, and resolves concrete engines by name through a Registry
// built at startup. The markdown+wrapper implementation lives in the
// markdown subpackage.
//
// Previews carry engine-defined metadata so an engine can recognise its own
// artifacts when they are loaded back from disk: a two-stage engine marks
// one preview as the human-editable intermediate and one as the final
// sendable form, and a rerender recomputes only what is downstream of the
// editable one.
package engine
