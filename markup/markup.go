// Package markup renders post content for display.
package markup

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM, // tables, strikethrough, task lists
			),
			goldmark.WithRendererOptions(
				// raw HTML is kept here and filtered by the policy
				html.WithUnsafe(),
			),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown into sanitized HTML.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer

	err := r.markdown.Convert([]byte(source), &buf)
	if err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}

	return r.policy.Sanitize(buf.String()), nil
}
