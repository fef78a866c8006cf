package chunker

import (
	"strings"
	"unicode"
)

// abbreviations end in a period without ending a sentence.
var abbreviations = map[string]struct{}{
	"e.g": {}, "i.e": {}, "mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {},
	"jr": {}, "sr": {}, "st": {}, "vs": {}, "inc": {}, "ltd": {}, "co": {},
	"corp": {}, "no": {}, "approx": {}, "dept": {}, "est": {}, "fig": {},
}

// closers may follow terminal punctuation inside a sentence.
const closers = `)]}"'”’`

// splitSentences splits one line into sentences. A sentence ends at a run
// of '.', '!' or '?' (plus any closing quotes or brackets) followed by
// whitespace or the end of the line, unless the run is a single period
// after a known abbreviation. Text after the last terminator is returned
// as a trailing fragment. The boolean slice marks which parts ended in
// terminal punctuation.
func splitSentences(line string) ([]string, []bool) {
	runes := []rune(line)
	var parts []string
	var terminated []bool

	start := 0
	i := 0
	for i < len(runes) {
		if !isTerminator(runes[i]) {
			i++
			continue
		}

		runStart := i
		for i < len(runes) && isTerminator(runes[i]) {
			i++
		}
		runLen := i - runStart
		for i < len(runes) && strings.ContainsRune(closers, runes[i]) {
			i++
		}
		if i < len(runes) && !unicode.IsSpace(runes[i]) {
			continue
		}
		if runLen == 1 && runes[runStart] == '.' && isAbbreviation(runes[start:runStart]) {
			continue
		}

		if s := strings.TrimSpace(string(runes[start:i])); s != "" {
			parts = append(parts, s)
			terminated = append(terminated, true)
		}
		start = i
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		parts = append(parts, s)
		terminated = append(terminated, false)
	}
	return parts, terminated
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// isAbbreviation reports whether the last word of text is a known abbreviation.
func isAbbreviation(text []rune) bool {
	end := len(text)
	begin := end
	for begin > 0 && !unicode.IsSpace(text[begin-1]) {
		begin--
	}
	word := strings.ToLower(strings.TrimLeft(string(text[begin:end]), `([{"'“‘`))
	_, ok := abbreviations[word]
	return ok
}

// hasTerminator reports whether any sentence terminator appears in text.
func hasTerminator(text string) bool {
	return strings.ContainsAny(text, ".!?")
}
