package chunker

import (
	"strings"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// unit is the smallest piece the chunker moves: a heading, a sentence, or
// an unterminated line fragment.
type unit struct {
	text     string
	words    int
	newline  bool // starts a new line in the source
	sentence bool // ends in terminal punctuation
}

// piece is a chunk under construction.
type piece struct {
	units []unit
	words int
}

func (p *piece) add(u unit) {
	p.units = append(p.units, u)
	p.words += u.words
}

func (p *piece) hasSentence() bool {
	for _, u := range p.units {
		if u.sentence {
			return true
		}
	}
	return false
}

func (p *piece) String() string {
	var b strings.Builder
	for i, u := range p.units {
		if i > 0 {
			if u.newline {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(u.text)
	}
	return b.String()
}

// Split divides text into chunk texts of at most maxWords words, preferring
// section boundaries, then sentence boundaries. A sentence longer than
// maxWords is emitted whole. Chunks shorter than minWords are merged into a
// neighbour when the merge stays within maxWords. Empty or whitespace-only
// text yields no chunks and no error; binary text yields an error wrapping
// domain.ErrInvalidInput. Output is deterministic.
func Split(text string, maxWords, minWords int) ([]string, error) {
	if err := Validate(text); err != nil {
		return nil, err
	}
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	if minWords < 0 {
		minWords = 0
	}
	if minWords > maxWords {
		minWords = maxWords
	}

	normalised := Normalise(text)
	if normalised == "" {
		return nil, nil
	}

	sections := splitSections(normalised)
	if !hasTerminator(normalised) && len(sections) <= 1 {
		return wordWindows(normalised, maxWords), nil
	}

	var pieces []piece
	for _, section := range sections {
		pieces = append(pieces, pack(section, maxWords)...)
	}
	pieces = mergeShort(pieces, maxWords, minWords)

	if len(pieces) == 0 {
		return wordWindows(normalised, maxWords), nil
	}

	out := make([]string, len(pieces))
	for i := range pieces {
		out[i] = pieces[i].String()
	}
	return out, nil
}

// splitSections groups normalised lines into sections, each starting at a
// heading line. Every section is returned as its ordered units.
func splitSections(text string) [][]unit {
	var sections [][]unit
	var current []unit

	for _, line := range strings.Split(text, "\n") {
		if isHeading(line) {
			if len(current) > 0 {
				sections = append(sections, current)
			}
			current = []unit{{text: line, words: domain.CountWords(line), newline: true}}
			continue
		}

		parts, terminated := splitSentences(line)
		for i, part := range parts {
			current = append(current, unit{
				text:     part,
				words:    domain.CountWords(part),
				newline:  i == 0,
				sentence: terminated[i],
			})
		}
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}
	return sections
}

// pack accumulates units into pieces, closing a piece when the next unit
// would push it past maxWords. An unterminated fragment longer than maxWords
// is not a sentence, so it is cut into word windows, the first of which
// fills the space left in the current piece.
func pack(units []unit, maxWords int) []piece {
	var pieces []piece
	var current piece

	flush := func() {
		if len(current.units) > 0 {
			pieces = append(pieces, current)
			current = piece{}
		}
	}

	for _, u := range units {
		parts := []unit{u}
		if !u.sentence && u.words > maxWords {
			parts = splitFragment(u, maxWords-current.words, maxWords)
		}
		for _, part := range parts {
			if current.words > 0 && current.words+part.words > maxWords {
				flush()
			}
			current.add(part)
		}
	}
	flush()
	return pieces
}

// splitFragment cuts an unterminated unit into runs of at most size words.
// The first run holds first words when first is positive.
func splitFragment(u unit, first, size int) []unit {
	words := strings.Fields(u.text)
	if first <= 0 || first > size {
		first = size
	}

	var parts []unit
	for start, n := 0, first; start < len(words); start, n = start+n, size {
		end := start + n
		if end > len(words) {
			end = len(words)
		}
		parts = append(parts, unit{
			text:    strings.Join(words[start:end], " "),
			words:   end - start,
			newline: u.newline && start == 0,
		})
	}
	return parts
}

// mergeShort folds pieces below minWords into the following piece, or the
// preceding one, when the result fits in maxWords. A short final piece that
// cannot be merged is kept only if it holds a whole sentence.
func mergeShort(pieces []piece, maxWords, minWords int) []piece {
	out := make([]piece, 0, len(pieces))

	for i := 0; i < len(pieces); i++ {
		p := pieces[i]
		if p.words >= minWords {
			out = append(out, p)
			continue
		}

		if i+1 < len(pieces) && p.words+pieces[i+1].words <= maxWords {
			next := p
			for _, u := range pieces[i+1].units {
				next.add(u)
			}
			pieces[i+1] = next
			continue
		}

		if n := len(out); n > 0 && out[n-1].words+p.words <= maxWords {
			for _, u := range p.units {
				out[n-1].add(u)
			}
			continue
		}

		if i == len(pieces)-1 && !p.hasSentence() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// wordWindows slices text into consecutive windows of maxWords words.
func wordWindows(text string, maxWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	out := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for start := 0; start < len(words); start += maxWords {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		out = append(out, strings.Join(words[start:end], " "))
	}
	return out
}
