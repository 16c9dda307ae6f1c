// Package mapper reconciles data-source headers against the fields a
// template declares it needs.
//
// Mapping is a strategy: Interactive asks the operator per header through a
// prompt.Prompter, Static takes a caller-supplied map. Template fields left
// without a source are reported once as a warning, not an error: engines
// tolerate missing fields, so the gap surfaces at render time at worst.
package mapper
