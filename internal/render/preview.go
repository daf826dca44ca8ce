// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const previewWrap = 100

// Preview writes doc to w as styled terminal text. Styling is only applied
// when w is a terminal; otherwise the notty style keeps the output plain.
func Preview(w io.Writer, doc string) error {
	style := glamour.WithStandardStyle("notty")
	if isTerminal(w) {
		style = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(previewWrap))
	if err != nil {
		return fmt.Errorf("creating preview renderer: %w", err)
	}
	out, err := r.Render(doc)
	if err != nil {
		return fmt.Errorf("rendering preview: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
