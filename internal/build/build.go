// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package build runs the zkdocs pipeline end to end: collect the notes for a
// tag, write the assembled Markdown document, render it, and record the run.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/zkdocs/internal/collect"
	"github.com/pdiddy/zkdocs/internal/history"
	"github.com/pdiddy/zkdocs/internal/render"
	"github.com/pdiddy/zkdocs/internal/zk"
	"github.com/pdiddy/zkdocs/pkg/types"
)

const (
	docExtension     = ".md"
	defaultExtension = "pdf"
	maxTagSuggestion = 3
)

// Recorder stores a finished build. history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (string, error)
}

// TagLister lists the tags known to the notebook. zk.Store implements it.
type TagLister interface {
	Tags(ctx context.Context) ([]string, error)
}

// Request describes one build.
type Request struct {
	Options collect.Options
	Header  types.HeaderConfig

	// OutputDir receives the document and the rendered artifact.
	OutputDir string

	// Extension is the rendered artifact's extension (default "pdf").
	Extension string

	// SkipRender stops after the Markdown document is written.
	SkipRender bool
}

// Result describes a finished build.
type Result struct {
	Notes        []types.Note
	Tagged       int
	Linked       int
	ResourceDirs []string
	Document     string
	Output       string
	Duration     time.Duration
}

// Builder runs builds against a note store and a renderer.
type Builder struct {
	store    collect.NoteStore
	renderer render.Renderer
	tags     TagLister
	recorder Recorder
	log      zerolog.Logger
	now      func() time.Time
}

// New returns a Builder. renderer may be nil when every request sets
// SkipRender.
func New(store collect.NoteStore, renderer render.Renderer, log zerolog.Logger) *Builder {
	return &Builder{
		store:    store,
		renderer: renderer,
		log:      log,
		now:      time.Now,
	}
}

// WithRecorder makes the builder record every run in r.
func (b *Builder) WithRecorder(r Recorder) *Builder {
	b.recorder = r
	return b
}

// WithTagSuggestions makes the builder suggest similar tags from l when a
// tag matches no notes.
func (b *Builder) WithTagSuggestions(l TagLister) *Builder {
	b.tags = l
	return b
}

// FileStem turns a tag into a file name stem. Path separators become "-"
// so hierarchical tags such as "course/ml" stay in the output directory.
func FileStem(tag string) string {
	return strings.NewReplacer("/", "-", "\\", "-").Replace(strings.TrimSpace(tag))
}

// Paths returns the absolute document and output paths for req. output is
// empty when SkipRender is set.
func (req Request) Paths() (doc, output string, err error) {
	outDir, err := filepath.Abs(req.OutputDir)
	if err != nil {
		return "", "", fmt.Errorf("resolving output directory: %w", err)
	}
	stem := FileStem(req.Options.Tag)
	doc = filepath.Join(outDir, stem+docExtension)
	if !req.SkipRender {
		ext := strings.TrimPrefix(req.Extension, ".")
		if ext == "" {
			ext = defaultExtension
		}
		output = filepath.Join(outDir, stem+"."+ext)
	}
	return doc, output, nil
}

// Run performs one build and writes status lines to w. It fails fast: the
// first error aborts the run and files already written are left in place.
func (b *Builder) Run(ctx context.Context, req Request, w io.Writer) (res Result, err error) {
	start := b.now()
	if err := req.Options.Validate(); err != nil {
		return Result{}, err
	}

	res.Document, res.Output, err = req.Paths()
	if err != nil {
		return Result{}, err
	}

	defer func() {
		res.Duration = b.now().Sub(start)
		b.record(ctx, req, res, start, err)
	}()

	c, err := collect.Collect(ctx, b.store, req.Options)
	if err != nil {
		return res, err
	}
	res.Notes, res.Tagged, res.Linked = c.Notes, c.Tagged, c.Linked
	res.ResourceDirs = collect.ResourceDirs(c.Notes)

	fmt.Fprintf(w, "collected: %d notes (%d tagged, %d linked)\n", len(c.Notes), c.Tagged, c.Linked)
	b.log.Debug().
		Str("tag", req.Options.Tag).
		Int("depth", req.Options.LinkDepth).
		Int("notes", len(c.Notes)).
		Strs("resource_dirs", res.ResourceDirs).
		Msg("collected notes")
	if len(c.Notes) == 0 {
		b.warnEmpty(ctx, req.Options.Tag, w)
	}

	header, err := collect.FrontMatter(req.Header)
	if err != nil {
		return res, err
	}
	if err := writeDocument(res.Document, collect.Assemble(header, c.Notes)); err != nil {
		return res, err
	}
	fmt.Fprintf(w, "wrote: %s\n", res.Document)

	if req.SkipRender {
		return res, nil
	}
	if b.renderer == nil {
		return res, errors.New("no renderer configured")
	}
	if err := b.renderer.Render(ctx, res.Document, res.Output, res.ResourceDirs); err != nil {
		return res, err
	}
	fmt.Fprintf(w, "rendered: %s\n", res.Output)
	return res, nil
}

// Preview collects the notes for opts and returns the assembled document
// without front matter. Nothing is written or recorded.
func (b *Builder) Preview(ctx context.Context, opts collect.Options) (string, collect.Collection, error) {
	c, err := collect.Collect(ctx, b.store, opts)
	if err != nil {
		return "", collect.Collection{}, err
	}
	return collect.Assemble("", c.Notes), c, nil
}

func writeDocument(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// warnEmpty reports a tag that matched nothing. The build continues.
func (b *Builder) warnEmpty(ctx context.Context, tag string, w io.Writer) {
	fmt.Fprintf(w, "warning: no notes found for tag %q\n", tag)
	if b.tags == nil {
		return
	}
	known, err := b.tags.Tags(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("listing tags for suggestions")
		return
	}
	if s := zk.SuggestTags(tag, known, maxTagSuggestion); len(s) > 0 {
		fmt.Fprintf(w, "did you mean: %s?\n", strings.Join(s, ", "))
	}
}

func (b *Builder) record(ctx context.Context, req Request, res Result, start time.Time, runErr error) {
	if b.recorder == nil {
		return
	}
	e := history.Entry{
		Tag:       req.Options.Tag,
		LinkDepth: req.Options.LinkDepth,
		Notes:     len(res.Notes),
		Document:  res.Document,
		Output:    res.Output,
		StartedAt: start,
		Duration:  res.Duration,
		Status:    history.StatusOK,
	}
	if runErr != nil {
		e.Status = history.StatusFailed
		e.Error = runErr.Error()
	}
	// A cancelled build is still worth recording.
	if _, err := b.recorder.Record(context.WithoutCancel(ctx), e); err != nil {
		b.log.Warn().Err(err).Str("tag", e.Tag).Msg("recording build history")
	}
}
