package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise converts an HTML document to plain text, one block per line.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	rawContent := string(raw.Content)

	title := extractHTMLTitle(rawContent)
	if title == "" {
		title = normalisers.TitleFromURI(raw.URI)
	}

	return normalisers.NewResult(raw, title, stripHTML(rawContent), "html"), nil
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag          = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	droppedBlocks     = regexp.MustCompile(`(?is)<(script|style|noscript|head|svg)\b[^>]*>.*?</(script|style|noscript|head|svg)>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	headingTags       = regexp.MustCompile(`(?is)<h[1-6][^>]*>(.*?)</h[1-6]>`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|li|tr|blockquote|pre|table|section|article|ul|ol)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|li|tr|blockquote|pre|table|section|article|ul|ol)(\s[^>]*)?>`)
	lineBreaks        = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
)

// extractHTMLTitle returns the decoded <title>, or "".
func extractHTMLTitle(content string) string {
	matches := titleTag.FindStringSubmatch(content)
	if len(matches) > 1 {
		return strings.TrimSpace(html.UnescapeString(matches[1]))
	}
	return ""
}

// stripHTML removes HTML tags and extracts readable text content.
func stripHTML(content string) string {
	content = droppedBlocks.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	content = headingTags.ReplaceAllStringFunc(content, func(m string) string {
		inner := headingTags.FindStringSubmatch(m)[1]
		inner = html.UnescapeString(allTags.ReplaceAllString(inner, ""))
		return "\n" + strings.ToUpper(strings.TrimSpace(inner)) + "\n"
	})

	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = lineBreaks.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
