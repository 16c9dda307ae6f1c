package engine

import "errors"

var (
	// ErrNotLoaded indicates an engine method was called before LoadTemplate.
	ErrNotLoaded = errors.New("template not loaded")

	// ErrTemplateLoad indicates a template source could not be read or parsed.
	ErrTemplateLoad = errors.New("failed to load template")

	// ErrRender indicates rendering a record against the template failed.
	ErrRender = errors.New("failed to render preview")

	// ErrMissingMetadata indicates a stored preview lacks the engine metadata
	// needed to determine its role.
	ErrMissingMetadata = errors.New("preview is missing engine metadata")

	// ErrUnknownEngine indicates a registry lookup for an unregistered name.
	ErrUnknownEngine = errors.New("unknown template engine")

	// ErrInvalidOptions indicates engine options are missing required keys.
	ErrInvalidOptions = errors.New("invalid engine options")
)
