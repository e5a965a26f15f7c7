package view

import "errors"

var (
	// ErrNotConfigured is returned when the engine has no template source.
	ErrNotConfigured = errors.New("template directory is not configured")
	// ErrTemplateNotFound is returned when a template file does not exist.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrIncludeDepth is returned when include calls nest too deeply.
	ErrIncludeDepth = errors.New("template include depth exceeded")
)
