// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect gathers the notes that make up one document: the notes
// carrying a tag plus, optionally, the notes they link to. It filters and
// orders them and rewrites [id] cross-references into note titles.
package collect

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pdiddy/zkdocs/pkg/types"
)

var (
	// ErrEmptyTag is returned when no tag is given.
	ErrEmptyTag = errors.New("tag must not be empty")

	// ErrInvalidDepth is returned for a negative link depth.
	ErrInvalidDepth = errors.New("link depth must be zero or positive")
)

// NoteStore lists notes from a notebook. The zk package provides the
// production implementation.
type NoteStore interface {
	// ByTag returns the notes carrying tag.
	ByTag(ctx context.Context, tag string) ([]types.Note, error)

	// LinkedBy returns the notes reachable from ids within maxDistance link
	// hops, leaving out notes that carry excludeTag.
	LinkedBy(ctx context.Context, ids []string, excludeTag string, maxDistance int) ([]types.Note, error)
}

// Options controls one collection run.
type Options struct {
	Tag       string
	LinkDepth int
	Sort      bool
	Exclude   []string
}

// Validate checks the options before any note is fetched.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Tag) == "" {
		return ErrEmptyTag
	}
	if o.LinkDepth < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, o.LinkDepth)
	}
	for _, pattern := range o.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// Collection is the outcome of Collect.
type Collection struct {
	// Notes holds the final notes in document order, references rewritten.
	Notes []types.Note

	// Tagged and Linked count the notes each query returned.
	Tagged int
	Linked int
}

// Collect fetches, merges, filters, orders and rewrites the notes for
// opts.Tag. Store failures abort the run.
func Collect(ctx context.Context, store NoteStore, opts Options) (Collection, error) {
	if err := opts.Validate(); err != nil {
		return Collection{}, err
	}

	tagged, err := store.ByTag(ctx, opts.Tag)
	if err != nil {
		return Collection{}, err
	}

	var linked []types.Note
	if opts.LinkDepth > 0 {
		if ids := noteIDs(tagged); len(ids) > 0 {
			linked, err = store.LinkedBy(ctx, ids, opts.Tag, opts.LinkDepth)
			if err != nil {
				return Collection{}, err
			}
		}
	}

	notes := Merge(tagged, linked)
	notes = DropTitle(notes, opts.Tag)
	notes = Exclude(notes, opts.Exclude)
	if opts.Sort {
		SortByTitle(notes)
	}
	RewriteReferences(notes)

	return Collection{Notes: notes, Tagged: len(tagged), Linked: len(linked)}, nil
}

func noteIDs(notes []types.Note) []string {
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		if n.ID != "" {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Merge concatenates the note lists in order. A note whose path already
// appeared is dropped.
func Merge(lists ...[]types.Note) []types.Note {
	var merged []types.Note
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, n := range list {
			key := n.Path
			if key == "" {
				key = "id:" + n.ID
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, n)
		}
	}
	return merged
}

// DropTitle removes notes titled exactly title. A notebook usually keeps an
// index note named after the tag; it is not document content.
func DropTitle(notes []types.Note, title string) []types.Note {
	out := notes[:0:0]
	for _, n := range notes {
		if n.Title != title {
			out = append(out, n)
		}
	}
	return out
}

// Exclude removes notes whose path matches any of the doublestar patterns.
// Patterns are validated by Options.Validate.
func Exclude(notes []types.Note, patterns []string) []types.Note {
	if len(patterns) == 0 {
		return notes
	}
	out := notes[:0:0]
	for _, n := range notes {
		if !matchesAny(path.Clean(filepath.ToSlash(n.Path)), patterns) {
			out = append(out, n)
		}
	}
	return out
}

func matchesAny(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

// SortByTitle orders notes by title, ignoring case. Notes with equal titles
// keep their relative order.
func SortByTitle(notes []types.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return strings.ToLower(notes[i].Title) < strings.ToLower(notes[j].Title)
	})
}

// RewriteReferences replaces every [id] marker that names a note in notes
// with that note's title, in place. Each body is scanned once, so a title
// that itself looks like a marker is not rewritten again. Markers for notes
// outside the set are left as they are.
func RewriteReferences(notes []types.Note) {
	var pairs []string
	for _, n := range notes {
		if n.ID == "" {
			continue
		}
		pairs = append(pairs, "["+n.ID+"]", n.Title)
	}
	if len(pairs) == 0 {
		return
	}
	r := strings.NewReplacer(pairs...)
	for i := range notes {
		notes[i].Body = r.Replace(notes[i].Body)
	}
}

// ResourceDirs returns the distinct top-level directories of the note
// paths, sorted. pandoc searches them for images and other relative assets.
// Notes at the notebook root contribute ".".
func ResourceDirs(notes []types.Note) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, n := range notes {
		dir := topLevelDir(n.Path)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

func topLevelDir(p string) string {
	p = strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "/")
	first, _, found := strings.Cut(p, "/")
	if !found || first == "" {
		return "."
	}
	return first
}
