package chunker

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// maxControlRatio is the share of control characters above which text is
// treated as binary.
const maxControlRatio = 0.10

// bulletGlyphs are list markers stripped from the start of a line.
const bulletGlyphs = "•●▪◦‣■□➢►✓✔·"

// Validate reports whether text looks like extracted prose rather than
// binary content. It returns an error wrapping domain.ErrInvalidInput.
func Validate(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: text is not valid UTF-8", domain.ErrInvalidInput)
	}
	if strings.ContainsRune(text, 0) {
		return fmt.Errorf("%w: text contains NUL bytes", domain.ErrInvalidInput)
	}

	var total, control int
	for _, r := range text {
		total++
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			control++
		}
	}
	if total > 0 && float64(control)/float64(total) > maxControlRatio {
		return fmt.Errorf("%w: text looks binary (%d of %d characters are control codes)",
			domain.ErrInvalidInput, control, total)
	}
	return nil
}

// Normalise collapses horizontal whitespace, strips control characters and
// leading bullet glyphs, and drops blank lines. Line breaks are preserved
// so section headings stay on their own line.
func Normalise(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = cleanLine(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func cleanLine(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	space := false
	for _, r := range line {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r):
			// dropped
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return stripBullet(b.String())
}

func stripBullet(line string) string {
	trimmed := strings.TrimLeft(line, bulletGlyphs)
	if trimmed != line {
		return strings.TrimSpace(trimmed)
	}
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return strings.TrimSpace(line[2:])
	}
	return line
}

// isHeading reports whether a normalised line is a section heading such as
// "EXPERIENCE" or "WORK HISTORY:". Headings are short, upper-case, and carry
// at least four letters.
func isHeading(line string) bool {
	line = strings.TrimSuffix(line, ":")
	if line == "" || len(strings.Fields(line)) > 6 {
		return false
	}

	letters := 0
	for _, r := range line {
		switch {
		case unicode.IsLetter(r):
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		case r == ' ' || r == '&' || r == '/' || r == '-':
		default:
			return false
		}
	}
	return letters >= 4
}
