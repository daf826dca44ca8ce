// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"bytes"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/zkdocs/pkg/types"
)

// noteSeparator sits between consecutive note bodies.
const noteSeparator = "\n\n"

// headerFields are the front-matter keys owned by the typed HeaderConfig
// fields. Free-form variables may not reuse them.
var headerFields = []string{"classoption", "geometry", "papersize", "fontsize"}

// FrontMatter renders the pandoc metadata block for hdr: the YAML between
// two "---" lines, followed by a blank line. An empty header renders as an
// empty string. A variable named like one of the typed fields is rejected.
func FrontMatter(hdr types.HeaderConfig) (string, error) {
	for _, key := range headerFields {
		if _, ok := hdr.Variables[key]; ok {
			return "", fmt.Errorf("header variable %q: set header.%s instead", key, key)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(hdr); err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}

	body := buf.String()
	if strings.TrimSpace(body) == "{}" {
		return "", nil
	}
	return "---\n" + body + "---\n\n", nil
}

// Assemble joins the note bodies under header, separated by blank lines.
func Assemble(header string, notes []types.Note) string {
	var b strings.Builder
	b.WriteString(header)
	for i, n := range notes {
		if i > 0 {
			b.WriteString(noteSeparator)
		}
		b.WriteString(n.Body)
	}
	return b.String()
}
