// Package paa implements the answer-engine-optimization scoring engine: it
// derives four [0,1] sub-scores from a page's HTML and combines them into a
// 0-100 composite score with improvement opportunities.
package paa

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/answerscope/aeo-analyzer/internal/fetch"
	"github.com/answerscope/aeo-analyzer/internal/types"
)

// targetDensity is the text-to-bytes ratio at which the density sub-score
// saturates at 1.0.
const targetDensity = 0.15

// excerptLimit caps the plain-text excerpt handed to the competitor resolver.
const excerptLimit = 1500

// accessErrorReason is the generic failure reason when a page cannot be
// reached or read at all.
const accessErrorReason = "Access error"

// Analyzer fetches pages and produces scored site reports.
type Analyzer struct {
	opts *fetch.Options
}

// NewAnalyzer creates an Analyzer with the given fetch timeout. A zero
// timeout selects the default.
func NewAnalyzer(timeout time.Duration) *Analyzer {
	opts := fetch.DefaultOptions()
	if timeout > 0 {
		opts.Timeout = timeout
	}
	return &Analyzer{opts: opts}
}

// Analyze fetches a single page and scores it. Fetch and parse failures are
// encoded in the returned report rather than surfaced as errors, so callers
// can treat every attempt uniformly.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) *types.SiteReport {
	target := fetch.EnsureScheme(rawURL)

	result, err := fetch.URL(ctx, target, a.opts)
	if err != nil {
		reason := accessErrorReason
		if result != nil && result.StatusCode != http.StatusOK {
			reason = fmt.Sprintf("Status %d", result.StatusCode)
		}
		return &types.SiteReport{URL: target, Error: true, FailureReason: reason}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body))
	if err != nil {
		return &types.SiteReport{URL: target, Error: true, FailureReason: accessErrorReason}
	}

	subScores, metrics := MeasurePage(doc, len(result.Body))
	score, summary, opportunities := Compose(subScores, metrics)

	return &types.SiteReport{
		URL:           target,
		Score:         score,
		SubScores:     subScores,
		Metrics:       metrics,
		Opportunities: opportunities,
		ReasonSummary: summary,
		RawExcerpt:    Excerpt(doc),
	}
}

// MeasurePage computes the four sub-scores and raw metrics from a parsed
// document and the total response size in bytes.
func MeasurePage(doc *goquery.Document, byteLen int) (types.SubScores, types.PageMetrics) {
	schemaPresence := 0.0
	if doc.Find(`script[type="application/ld+json"]`).Length() > 0 {
		schemaPresence = 1.0
	}

	h1Count := doc.Find("h1").Length()
	headingScore := 0.2
	switch {
	case h1Count == 1:
		headingScore = 1.0
	case h1Count > 1:
		headingScore = 0.5
	}

	bodyText := textContent(doc.Find("body"))
	densityRatio := 0.0
	if byteLen > 0 {
		densityRatio = float64(utf8.RuneCountInString(bodyText)) / float64(byteLen)
	}
	densityScore := math.Min(1.0, densityRatio/targetDensity)

	// Lenient floor: a missing or short title still scores 0.5.
	title := doc.Find("title").First().Text()
	titleScore := 0.5
	if utf8.RuneCountInString(title) > 10 {
		titleScore = 1.0
	}

	subScores := types.SubScores{
		SchemaPresence: schemaPresence,
		HeadingScore:   headingScore,
		DensityScore:   densityScore,
		TitleScore:     titleScore,
	}
	metrics := types.PageMetrics{
		H1Count:      h1Count,
		DensityRatio: densityRatio,
	}
	return subScores, metrics
}

// Excerpt extracts a whitespace-flattened plain-text excerpt of the whole
// document, capped at excerptLimit characters, for the competitor resolver.
func Excerpt(doc *goquery.Document) string {
	text := textContent(doc.Selection)
	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return text
	}
	return string(runes[:excerptLimit])
}

// textContent returns the selection's text: every text node trimmed, empties
// dropped, the rest joined by single spaces. Unlike Selection.Text this keeps
// a separator between adjacent elements.
func textContent(sel *goquery.Selection) string {
	var parts []string
	for _, node := range sel.Nodes {
		collectText(node, &parts)
	}
	return flattenText(strings.Join(parts, " "))
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			*parts = append(*parts, text)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// flattenText collapses all runs of whitespace into single spaces.
func flattenText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
