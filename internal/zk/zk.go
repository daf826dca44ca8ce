// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zk reads notes from a zk notebook by shelling out to the zk CLI.
// Each listing asks zk to print one JSON object per note, which ParseNotes
// decodes into types.Note records.
package zk

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/zkdocs/internal/runner"
	"github.com/pdiddy/zkdocs/pkg/types"
)

const (
	defaultBin     = "zk"
	defaultIDField = "metadata.id"
)

// Store lists notes through the zk CLI. It implements collect.NoteStore.
type Store struct {
	bin         string
	idField     string
	notebookDir string
	exec        runner.Executor
}

// NewStore returns a Store that runs zk inside notebookDir.
func NewStore(cfg types.ZkConfig, notebookDir string, exec runner.Executor) *Store {
	bin := cfg.Bin
	if bin == "" {
		bin = defaultBin
	}
	idField := cfg.IDField
	if idField == "" {
		idField = defaultIDField
	}
	return &Store{
		bin:         bin,
		idField:     idField,
		notebookDir: notebookDir,
		exec:        exec,
	}
}

// Bin returns the zk executable the store invokes.
func (s *Store) Bin() string { return s.bin }

// recordFormat is the zk --format template. Every field goes through the
// json helper so titles and bodies with quotes or newlines stay on one line.
func (s *Store) recordFormat() string {
	return fmt.Sprintf(`{ "title": {{json title}}, "id": {{json %s}}, "path": {{json path}}, "body": {{json body}} }`, s.idField)
}

func (s *Store) listArgs(filters ...string) []string {
	args := append([]string{"list"}, filters...)
	return append(args, "--format", s.recordFormat(), "--quiet", "--no-pager", "--sort", "path")
}

// ByTag lists the notes carrying tag, sorted by path.
func (s *Store) ByTag(ctx context.Context, tag string) ([]types.Note, error) {
	out, err := s.exec.Output(ctx, s.notebookDir, s.bin, s.listArgs("--tag", tag)...)
	if err != nil {
		return nil, fmt.Errorf("listing notes tagged %q: %w", tag, err)
	}
	notes, err := ParseNotes(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("listing notes tagged %q: %w", tag, err)
	}
	return notes, nil
}

// LinkedBy lists the notes reachable from ids by following links at most
// maxDistance hops, leaving out notes tagged excludeTag.
func (s *Store) LinkedBy(ctx context.Context, ids []string, excludeTag string, maxDistance int) ([]types.Note, error) {
	filters := []string{
		"--linked-by", strings.Join(ids, ","),
		"--max-distance", strconv.Itoa(maxDistance),
	}
	if excludeTag != "" {
		filters = append(filters, "--tag", "NOT "+excludeTag)
	}
	out, err := s.exec.Output(ctx, s.notebookDir, s.bin, s.listArgs(filters...)...)
	if err != nil {
		return nil, fmt.Errorf("listing notes linked by %d note(s): %w", len(ids), err)
	}
	notes, err := ParseNotes(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("listing notes linked by %d note(s): %w", len(ids), err)
	}
	return notes, nil
}

// Tags returns the name of every tag in the notebook.
func (s *Store) Tags(ctx context.Context) ([]string, error) {
	out, err := s.exec.Output(ctx, s.notebookDir, s.bin, "tag", "list", "--format", "{{name}}", "--quiet", "--no-pager")
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	var tags []string
	for _, line := range strings.Split(string(out), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			tags = append(tags, name)
		}
	}
	return tags, nil
}

// ParseError reports a zk output line that is not a note record.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing zk output line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// record mirrors recordFormat. Pointers distinguish a missing field from an
// empty one.
type record struct {
	Title *string `json:"title"`
	ID    *string `json:"id"`
	Path  *string `json:"path"`
	Body  *string `json:"body"`
}

// ParseNotes decodes one note record per non-blank line of r. Title and path
// are required; id and body may be null or absent.
func ParseNotes(r io.Reader) ([]types.Note, error) {
	var notes []types.Note
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}
		if rec.Title == nil || rec.Path == nil {
			return nil, &ParseError{Line: lineNo, Err: errors.New("record is missing title or path")}
		}

		notes = append(notes, types.Note{
			Title: *rec.Title,
			ID:    deref(rec.ID),
			Path:  *rec.Path,
			Body:  deref(rec.Body),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading zk output: %w", err)
	}
	return notes, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
