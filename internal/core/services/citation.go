package services

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// CitationPrefix is the letter that starts every citation tag ("C3").
const CitationPrefix = 'C'

// maxTagDigits bounds the digits read for one tag.
const maxTagDigits = 4

// candidate is a bullet parsed from generator output before validation.
type candidate struct {
	text  string
	ranks []int // 1-based ranks, as written
}

// CitationTag returns the tag for a 1-based rank.
func CitationTag(rank int) string {
	return string(CitationPrefix) + strconv.Itoa(rank)
}

// parseBullets splits generator output into candidate bullets.
//
// Lines that start with a list marker ("•", "-", "*", "–", "—", "1.", "1)")
// open a bullet; an unmarked line directly below a bullet continues it.
// Lines before the first marker and after a blank line are commentary and
// are ignored. When no line carries a marker, every non-empty line is a
// bullet.
func parseBullets(raw string) []candidate {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")

	marked := false
	for _, line := range lines {
		if _, ok := stripMarker(strings.TrimSpace(line)); ok {
			marked = true
			break
		}
	}

	var out []candidate
	var texts []string
	inBullet := false

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			inBullet = false
			continue
		}

		body, isMarker := stripMarker(line)
		switch {
		case !marked:
			texts = append(texts, line)
		case isMarker:
			texts = append(texts, body)
			inBullet = true
		case inBullet:
			texts[len(texts)-1] += " " + line
		}
	}

	for _, t := range texts {
		text, ranks := extractCitations(t)
		if text == "" {
			continue
		}
		out = append(out, candidate{text: text, ranks: ranks})
	}
	return out
}

// stripMarker removes a leading list marker and reports whether one was found.
func stripMarker(line string) (string, bool) {
	for _, m := range []string{"•", "●", "▪", "-", "*", "–", "—"} {
		if strings.HasPrefix(line, m) {
			rest := strings.TrimPrefix(line, m)
			if m == "*" && strings.HasPrefix(rest, "*") {
				return line, false // bold text, not a marker
			}
			if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
				return strings.TrimSpace(rest), true
			}
			return line, false
		}
	}

	i := 0
	for i < len(line) && i < 3 && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i+1 < len(line) && (line[i] == '.' || line[i] == ')') && line[i+1] == ' ' {
		return strings.TrimSpace(line[i+1:]), true
	}
	return line, false
}

// extractCitations removes citation tags from line and returns the cleaned
// text with the ranks in order of appearance. A tag is the citation prefix
// followed by digits, not touching another letter or digit on either side.
// Bracketed groups such as "[C1, C3]" or "(C2)" are removed whole.
func extractCitations(line string) (string, []int) {
	rs := []rune(line)
	out := make([]rune, 0, len(rs))
	var ranks []int

	for i := 0; i < len(rs); {
		r := rs[i]

		if r == '[' || r == '(' {
			closer := ']'
			if r == '(' {
				closer = ')'
			}
			if end, group, ok := scanGroup(rs, i+1, closer); ok {
				ranks = append(ranks, group...)
				i = end + 1
				continue
			}
		}

		if r == CitationPrefix && (i == 0 || !isAlnum(rs[i-1])) {
			if n, end, ok := scanTag(rs, i); ok && (end == len(rs) || !isAlnum(rs[end])) {
				ranks = append(ranks, n)
				i = end
				continue
			}
		}

		out = append(out, r)
		i++
	}

	return tidy(string(out)), ranks
}

// scanTag reads a tag starting at rs[i] and returns its number and the
// index just past it.
func scanTag(rs []rune, i int) (int, int, bool) {
	if i >= len(rs) || rs[i] != CitationPrefix {
		return 0, i, false
	}
	j := i + 1
	n := 0
	for j < len(rs) && j-i-1 < maxTagDigits && rs[j] >= '0' && rs[j] <= '9' {
		n = n*10 + int(rs[j]-'0')
		j++
	}
	if j == i+1 {
		return 0, i, false
	}
	return n, j, true
}

// scanGroup reads tags separated by commas, semicolons, ampersands or
// spaces up to closer. It fails if anything else appears.
func scanGroup(rs []rune, i int, closer rune) (int, []int, bool) {
	var ranks []int
	for i < len(rs) {
		switch r := rs[i]; {
		case r == closer:
			return i, ranks, len(ranks) > 0
		case r == ' ' || r == ',' || r == ';' || r == '&':
			i++
		case r == CitationPrefix:
			n, end, ok := scanTag(rs, i)
			if !ok || (end < len(rs) && isAlnum(rs[end])) {
				return 0, nil, false
			}
			ranks = append(ranks, n)
			i = end
		default:
			return 0, nil, false
		}
	}
	return 0, nil, false
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// tidy collapses whitespace left by removed tags and drops emphasis markers.
func tidy(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.Join(strings.Fields(s), " ")
	for _, p := range []string{" .", " ,", " ;", " :", " !", " ?"} {
		s = strings.ReplaceAll(s, p, p[1:])
	}
	return strings.TrimSpace(s)
}

// resolveCitations maps ranks to chunk positions of the chunks offered in
// retrieved. Ranks outside the offered set are dropped. The result is
// unique and keeps first-mention order. It also returns the number of
// dropped tags.
func resolveCitations(ranks []int, retrieved []domain.ScoredChunk) ([]int, int) {
	seen := make(map[int]struct{}, len(ranks))
	out := make([]int, 0, len(ranks))
	dropped := 0

	for _, rank := range ranks {
		if rank < 1 || rank > len(retrieved) {
			dropped++
			continue
		}
		pos := retrieved[rank-1].Chunk.Position
		if _, ok := seen[pos]; ok {
			continue
		}
		seen[pos] = struct{}{}
		out = append(out, pos)
	}
	return out, dropped
}

// dedupKey folds case and whitespace so near-identical echoes collide.
func dedupKey(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// DedupBullets keeps the first of any bullets with the same text, ignoring
// case and whitespace differences, and preserves order. Applying it twice
// gives the same result as applying it once.
func DedupBullets(bullets []domain.TailoredBullet) []domain.TailoredBullet {
	seen := make(map[string]struct{}, len(bullets))
	out := make([]domain.TailoredBullet, 0, len(bullets))
	for _, b := range bullets {
		key := dedupKey(b.Text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, b)
	}
	return out
}

// validateBullets resolves, filters and deduplicates parsed bullets.
// Ungrounded bullets are removed before deduplication so they never shadow
// a grounded bullet with the same text. Every returned bullet cites at
// least one offered chunk.
func validateBullets(cands []candidate, retrieved []domain.ScoredChunk, stats *domain.GenerationStats) []domain.TailoredBullet {
	grounded := make([]domain.TailoredBullet, 0, len(cands))
	for _, c := range cands {
		citations, dropped := resolveCitations(c.ranks, retrieved)
		stats.DroppedCitations += dropped
		if len(citations) == 0 {
			stats.Ungrounded++
			continue
		}
		grounded = append(grounded, domain.TailoredBullet{Text: c.text, Citations: citations})
	}

	unique := DedupBullets(grounded)
	stats.Duplicates += len(grounded) - len(unique)
	return unique
}
