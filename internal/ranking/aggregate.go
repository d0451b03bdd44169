// Package ranking merges the client's site report and resolver-suggested
// rivals into the final ordered analysis report with a diagnosis narrative.
package ranking

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/answerscope/aeo-analyzer/internal/fetch"
	"github.com/answerscope/aeo-analyzer/internal/types"
)

// UserEntryName labels the client's own row in the leaderboard.
const UserEntryName = "YOUR COMPANY"

// MaxCompetitors caps how many resolver candidates are analyzed per request.
const MaxCompetitors = 5

// maxConcurrentFetches bounds parallel rival page fetches.
const maxConcurrentFetches = 3

// AnalyzeFunc produces a scored report for a single site.
type AnalyzeFunc func(ctx context.Context, url string) *types.SiteReport

// Aggregator builds ranked analysis reports from client and rival data.
type Aggregator struct {
	analyze AnalyzeFunc
}

// NewAggregator creates an Aggregator that scores rival sites with analyze.
func NewAggregator(analyze AnalyzeFunc) *Aggregator {
	return &Aggregator{analyze: analyze}
}

// Aggregate ranks the client against the resolver's candidates. Rival pages
// are fetched concurrently, but reports land in canonical candidate order
// (client first, then resolver order) so the stable-sort tie break never
// depends on fetch timing. Rivals that fail their own fetch, carry an empty
// URL or duplicate the client's domain are dropped silently.
func (a *Aggregator) Aggregate(ctx context.Context, clientReport *types.SiteReport, clientURL string, intel *types.MarketIntel) *types.AnalysisReport {
	clientDomain := fetch.CleanDomain(clientURL)

	entries := []types.RankingEntry{{
		Name:              UserEntryName,
		URL:               clientDomain,
		Score:             clientReport.Score,
		ReasonSummary:     clientReport.ReasonSummary,
		IsUser:            true,
		Opportunities:     clientReport.Opportunities,
		MarketDescription: fmt.Sprintf("Your company (%s)", intel.Industry),
		Country:           "N/A", // never requested from the resolver
	}}

	candidates := intel.Competitors
	if len(candidates) > MaxCompetitors {
		candidates = candidates[:MaxCompetitors]
	}

	reports := make([]*types.SiteReport, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, candidate := range candidates {
		if candidate.URL == "" || fetch.CleanDomain(candidate.URL) == clientDomain {
			continue
		}
		g.Go(func() error {
			reports[i] = a.analyze(gctx, candidate.URL)
			return nil
		})
	}
	_ = g.Wait() // workers never fail; fetch errors live inside the reports

	for i, candidate := range candidates {
		report := reports[i]
		if report == nil || report.Error {
			continue
		}
		entry := types.RankingEntry{
			Name:              fetch.CleanDomain(candidate.URL),
			URL:               candidate.URL,
			Score:             report.Score,
			ReasonSummary:     report.ReasonSummary,
			MarketDescription: candidate.Description,
			Country:           candidate.Country,
		}
		if entry.MarketDescription == "" {
			entry.MarketDescription = "N/A"
		}
		if entry.Country == "" {
			entry.Country = "Global"
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	userRank := 0
	for i := range entries {
		entries[i].Position = i + 1
		if entries[i].IsUser {
			userRank = entries[i].Position
		}
	}

	return &types.AnalysisReport{
		Score:     clientReport.Score,
		Diagnosis: diagnose(clientReport.Score, userRank, entries),
		Industry:  intel.Industry,
		Ranking:   entries,
	}
}
