package paa

import (
	"fmt"
	"strings"

	"github.com/answerscope/aeo-analyzer/internal/types"
)

// Weights for the composite PAA score. The score is a comparison metric, not
// a statistical estimate, so these values and the truncating cast in Compose
// must not drift.
const (
	schemaWeight  = 0.3
	headingWeight = 0.2
	densityWeight = 0.3
	titleWeight   = 0.2
)

// lowDensityThreshold is the density sub-score below which a page is flagged
// as having too little text.
const lowDensityThreshold = 0.5

// optimalSummary is reported when no deficiency is found.
const optimalSummary = "Óptima"

// Compose combines the sub-scores into the 0-100 PAA score, a comma-joined
// deficiency summary and the ordered list of improvement opportunities.
func Compose(s types.SubScores, m types.PageMetrics) (int, string, []string) {
	weighted := (s.SchemaPresence * schemaWeight) +
		(s.HeadingScore * headingWeight) +
		(s.DensityScore * densityWeight) +
		(s.TitleScore * titleWeight)
	// Truncating cast, not rounding: 69.999 scores 69.
	score := int(weighted * 100)

	var reasons []string
	if s.SchemaPresence == 0 {
		reasons = append(reasons, "Sin Schema")
	}
	if m.H1Count != 1 {
		reasons = append(reasons, fmt.Sprintf("%d H1s", m.H1Count))
	}
	if s.DensityScore < lowDensityThreshold {
		reasons = append(reasons, "Poco texto")
	}
	summary := optimalSummary
	if len(reasons) > 0 {
		summary = strings.Join(reasons, ", ")
	}

	return score, summary, opportunities(s, m)
}

// opportunities derives one suggestion per failing sub-score, in a fixed
// order: structured data, headings, content density, title.
func opportunities(s types.SubScores, m types.PageMetrics) []string {
	var opps []string
	if s.SchemaPresence < 1.0 {
		opps = append(opps, "Implement structured data (Schema.org) markup for your key content.")
	}
	if m.H1Count != 1 {
		if m.H1Count == 0 {
			opps = append(opps, "Add an <h1> tag to define the central topic of the page.")
		} else {
			opps = append(opps, fmt.Sprintf("Reduce <h1> tags to a single one (%d detected).", m.H1Count))
		}
	}
	if s.DensityScore < 1.0 {
		opps = append(opps, fmt.Sprintf("Increase the amount of useful text content. Your density is low (%d%%).", int(m.DensityRatio*100)))
	}
	if s.TitleScore < 1.0 {
		opps = append(opps, "Make sure your <title> and <meta description> are unique and descriptive.")
	}
	return opps
}
