// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records shared across zkdocs packages: notes read
// from a zk notebook and the configuration of each pipeline stage.
package types

// Note is one zk note as listed by the note store. Notes are plain values;
// the pipeline copies them rather than sharing pointers.
type Note struct {
	// Title is the note title as zk reports it.
	Title string `json:"title" yaml:"title"`

	// ID is the short identifier used in [id] cross-references
	// (usually the metadata.id front-matter field).
	ID string `json:"id" yaml:"id"`

	// Path is the note location relative to the notebook root.
	Path string `json:"path" yaml:"path"`

	// Body is the note content. Empty when the caller did not ask for it.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`
}
