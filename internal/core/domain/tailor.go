package domain

// Style selects the tone of generated bullets.
type Style string

// Available bullet styles.
const (
	// StyleProfessional produces balanced, formal bullets.
	StyleProfessional Style = "professional"

	// StyleConcise produces short, dense bullets.
	StyleConcise Style = "concise"

	// StyleImpact leads with outcomes and metrics.
	StyleImpact Style = "impact"
)

// IsValid returns true if the style is recognised.
func (s Style) IsValid() bool {
	switch s {
	case StyleProfessional, StyleConcise, StyleImpact:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Style) String() string {
	return string(s)
}

// Description returns the instruction given to the generator for this style.
func (s Style) Description() string {
	switch s {
	case StyleConcise:
		return "Write short, direct bullets of at most 15 words."
	case StyleImpact:
		return "Lead each bullet with the outcome or metric, then the action that produced it."
	case StyleProfessional:
		return "Write clear, professional bullets using strong action verbs."
	default:
		return unknownDescription
	}
}

// Bullet limits.
const (
	MinBullets     = 1
	MaxBullets     = 20
	DefaultBullets = 8
)

// TailoredBullet is a generated statement and the chunks it cites.
// Citations holds chunk positions, unique, in order of first mention,
// and is never empty for a bullet returned to a caller.
type TailoredBullet struct {
	Text      string `json:"text"`
	Citations []int  `json:"citations"`
}

// GenerateOptions configures a generation request.
type GenerateOptions struct {
	// MaxBullets caps the number of bullets returned.
	MaxBullets int

	// Style selects the bullet tone.
	Style Style
}

// GenerationStats counts what the citation pipeline kept and dropped.
type GenerationStats struct {
	// Retrieved is the number of chunks offered to the generator.
	Retrieved int `json:"retrieved"`

	// Generated is the number of candidate bullets parsed from the output.
	Generated int `json:"generated"`

	// Kept is the number of bullets returned.
	Kept int `json:"kept"`

	// DroppedCitations counts tags that did not resolve to an offered chunk.
	DroppedCitations int `json:"dropped_citations"`

	// Duplicates counts bullets removed as repeats of an earlier bullet.
	Duplicates int `json:"duplicates"`

	// Ungrounded counts bullets removed for having no valid citation.
	Ungrounded int `json:"ungrounded"`

	// Truncated counts bullets removed by the MaxBullets cap.
	Truncated int `json:"truncated"`
}

// Generation is the validated output of one generation call.
type Generation struct {
	Bullets []TailoredBullet
	Model   string
	Stats   GenerationStats
}

// CitedPositions returns every chunk position cited anywhere in bullets,
// in order of first mention.
func CitedPositions(bullets []TailoredBullet) []int {
	seen := make(map[int]struct{})
	out := make([]int, 0)
	for _, b := range bullets {
		for _, p := range b.Citations {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// TailorResult is the response to a tailoring request.
type TailorResult struct {
	DocumentID  string           `json:"document_id"`
	Bullets     []TailoredBullet `json:"bullets"`
	CitedChunks []int            `json:"cited_chunks"`
	Retrieved   []ScoredChunk    `json:"retrieved"`
	Model       string           `json:"model"`
	Style       Style            `json:"style"`
	Stats       GenerationStats  `json:"stats"`
}
