// Package markdown implements the two-stage markdown+wrapper template
// engine.
//
// Stage one executes a text/template over the markdown source with the
// mapped record, producing the human-editable intermediate preview. Stage
// two converts that markdown to HTML and embeds it into an html/template
// layout, producing the final sendable preview. Because the stages are
// split, an operator can hand-correct the intermediate and rerender only
// the downstream HTML without re-running the record binding, which could
// silently reintroduce values the operator had overridden.
//
// The markdown source may start with a YAML frontmatter block delimited by
// "---" lines; its keys are exposed to the layout as .Meta.
package markdown
