// Package prompt abstracts operator decisions behind a Prompter interface
// so pipeline logic never talks to a terminal directly.
//
// Console is the interactive implementation used by the CLI; Fixed replays
// scripted answers for tests and headless runs. Components that need a
// decision (field mapping, file naming, the dispatch confirmation gate)
// take a Prompter and stay testable without terminal I/O.
package prompt
