// Package markdown provides a Normaliser for Markdown résumés.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise converts a markdown document to plain text.
// Headings are upper-cased so the chunker treats them as section starts.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	rawContent := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")

	title := extractMarkdownTitle(rawContent)
	if title == "" {
		title = normalisers.TitleFromURI(raw.URI)
	}

	return normalisers.NewResult(raw, title, stripMarkdown(rawContent), "markdown"), nil
}

var (
	codeBlock    = regexp.MustCompile("(?s)```.*?```")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}[ \t]+(.+?)[ \t]*#*[ \t]*$`)
	emphasis     = regexp.MustCompile(`(\*\*|__|\*|_)([^*_\n]+)(\*\*|__|\*|_)`)
	blockquote   = regexp.MustCompile(`(?m)^>[ \t]?`)
	rule         = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	htmlTags     = regexp.MustCompile(`<[^>]+>`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
	trailingWS   = regexp.MustCompile(`(?m)[ \t]+$`)
	setextHeader = regexp.MustCompile(`(?m)^(.+)\n(=+|-+)[ \t]*$`)
)

// extractMarkdownTitle returns the first H1 heading, or "".
func extractMarkdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.Trim(line, "#"))
		}
	}
	return ""
}

// stripMarkdown removes markdown formatting while keeping list items on
// their own lines. Code blocks are dropped; inline code keeps its text.
func stripMarkdown(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = htmlTags.ReplaceAllString(content, "")

	content = setextHeader.ReplaceAllStringFunc(content, func(m string) string {
		line := strings.SplitN(m, "\n", 2)[0]
		return "\n" + strings.ToUpper(strings.TrimSpace(line))
	})
	content = headings.ReplaceAllStringFunc(content, func(m string) string {
		sub := headings.FindStringSubmatch(m)
		return "\n" + strings.ToUpper(sub[1])
	})

	content = rule.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$2")
	content = blockquote.ReplaceAllString(content, "")
	content = trailingWS.ReplaceAllString(content, "")
	content = blankRuns.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
