// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns an assembled Markdown document into its final form:
// a file written by pandoc, or styled text for the terminal.
package render

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pdiddy/zkdocs/internal/runner"
	"github.com/pdiddy/zkdocs/pkg/types"
)

const (
	defaultPandocBin = "pandoc"
	defaultFrom      = "markdown-implicit_figures"
	defaultFormat    = "pdf"
)

// Renderer converts the Markdown document at docPath into outPath.
// resourceDirs are searched for relative assets such as images.
type Renderer interface {
	Render(ctx context.Context, docPath, outPath string, resourceDirs []string) error
}

// Pandoc renders documents with the pandoc CLI, run inside the notebook so
// relative resource directories resolve.
type Pandoc struct {
	bin       string
	from      string
	format    string
	extraArgs []string
	workDir   string
	exec      runner.Executor
	stderr    io.Writer
}

// NewPandoc returns a Pandoc renderer that runs in workDir. pandoc's own
// stdout is forwarded to stderr.
func NewPandoc(cfg types.PandocConfig, workDir string, exec runner.Executor, stderr io.Writer) *Pandoc {
	p := &Pandoc{
		bin:       cfg.Bin,
		from:      cfg.From,
		format:    cfg.Format,
		extraArgs: cfg.ExtraArgs,
		workDir:   workDir,
		exec:      exec,
		stderr:    stderr,
	}
	if p.bin == "" {
		p.bin = defaultPandocBin
	}
	if p.from == "" {
		p.from = defaultFrom
	}
	if p.format == "" {
		p.format = defaultFormat
	}
	if p.stderr == nil {
		p.stderr = io.Discard
	}
	return p
}

// Bin returns the pandoc executable the renderer invokes.
func (p *Pandoc) Bin() string { return p.bin }

// Extension returns the file extension of rendered output, without a dot.
func (p *Pandoc) Extension() string { return strings.TrimPrefix(p.format, ".") }

// Args builds the pandoc argument list for one render.
func (p *Pandoc) Args(docPath, outPath string, resourceDirs []string) []string {
	args := []string{docPath, "--from=" + p.from}
	if len(resourceDirs) > 0 {
		args = append(args, "--resource-path", strings.Join(resourceDirs, string(filepath.ListSeparator)))
	}
	args = append(args, "--standalone", "--output", outPath)
	return append(args, p.extraArgs...)
}

// Render runs pandoc. A non-zero exit is returned as an error; a partially
// written output file is left in place.
func (p *Pandoc) Render(ctx context.Context, docPath, outPath string, resourceDirs []string) error {
	if err := p.exec.Run(ctx, p.workDir, p.bin, p.Args(docPath, outPath, resourceDirs), p.stderr); err != nil {
		return fmt.Errorf("rendering %s: %w", filepath.Base(outPath), err)
	}
	return nil
}
