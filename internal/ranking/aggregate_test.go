package ranking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/answerscope/aeo-analyzer/internal/types"
)

// stubAnalyzer returns canned reports keyed by the URL handed to it and
// records which URLs were analyzed.
type stubAnalyzer struct {
	mu      sync.Mutex
	reports map[string]*types.SiteReport
	seen    []string
}

func (s *stubAnalyzer) analyze(_ context.Context, url string) *types.SiteReport {
	s.mu.Lock()
	s.seen = append(s.seen, url)
	s.mu.Unlock()

	if report, ok := s.reports[url]; ok {
		return report
	}
	return &types.SiteReport{URL: url, Error: true, FailureReason: "Access error"}
}

func okReport(score int, summary string) *types.SiteReport {
	return &types.SiteReport{Score: score, ReasonSummary: summary}
}

func clientReport(score int) *types.SiteReport {
	return &types.SiteReport{
		Score:         score,
		ReasonSummary: "Sin Schema",
		Opportunities: []string{"Implement structured data (Schema.org) markup for your key content."},
	}
}

func TestAggregate_SortsByScoreDescending(t *testing.T) {
	stub := &stubAnalyzer{reports: map[string]*types.SiteReport{
		"www.low.com":  okReport(20, "Sin Schema, Poco texto"),
		"www.high.com": okReport(95, "Óptima"),
	}}
	intel := &types.MarketIntel{
		Industry: "Footwear",
		Competitors: []types.CompetitorCandidate{
			{URL: "www.low.com", Description: "Low scorer", Country: "Chile"},
			{URL: "www.high.com", Description: "High scorer", Country: "Peru"},
		},
	}

	report := NewAggregator(stub.analyze).Aggregate(context.Background(), clientReport(60), "mysite.com", intel)

	require.Len(t, report.Ranking, 3)
	assert.Equal(t, "high.com", report.Ranking[0].Name)
	assert.Equal(t, UserEntryName, report.Ranking[1].Name)
	assert.Equal(t, "low.com", report.Ranking[2].Name)
	for i, entry := range report.Ranking {
		assert.Equal(t, i+1, entry.Position)
	}
}

func TestAggregate_ExactlyOneUserEntry(t *testing.T) {
	stub := &stubAnalyzer{reports: map[string]*types.SiteReport{
		"www.rival.com": okReport(50, "2 H1s"),
	}}
	intel := &types.MarketIntel{
		Industry:    "Retail",
		Competitors: []types.CompetitorCandidate{{URL: "www.rival.com"}},
	}

	report := NewAggregator(stub.analyze).Aggregate(context.Background(), clientReport(80), "mysite.com", intel)

	userCount := 0
	for _, entry := range report.Ranking {
		if entry.IsUser {
			userCount++
			assert.Equal(t, UserEntryName, entry.Name)
			assert.Equal(t, "mysite.com", entry.URL)
			assert.Equal(t, "N/A", entry.Country)
			assert.Equal(t, "Your company (Retail)", entry.MarketDescription)
			assert.NotEmpty(t, entry.Opportunities)
		} else {
			assert.Empty(t, entry.Opportunities) // user only
		}
	}
	assert.Equal(t, 1, userCount)
}

func TestAggregate_ClientWinsTiesByInsertionOrder(t *testing.T) {
	stub := &stubAnalyzer{reports: map[string]*types.SiteReport{
		"www.rival.com": okReport(60, "Óptima"),
	}}
	intel := &types.MarketIntel{
		Industry:    "Retail",
		Competitors: []types.CompetitorCandidate{{URL: "www.rival.com"}},
	}

	report := NewAggregator(stub.analyze).Aggregate(context.Background(), clientReport(60), "mysite.com", intel)

	// Stable sort: the client was inserted first and keeps rank 1 on a tie.
	require.Len(t, report.Ranking, 2)
	assert.True(t, report.Ranking[0].IsUser)
	assert.Equal(t, 1, report.Ranking[0].Position)
}

func TestAggregate_SkipsClientDomainAndEmptyURLs(t *testing.T) {
	stub := &stubAnalyzer{reports: map[string]*types.SiteReport{
		"www.rival.com": okReport(40, "Poco texto"),
	}}
	intel := &types.MarketIntel{
		Industry: "Retail",
		Competitors: []types.CompetitorCandidate{
			{URL: "https://www.mysite.com/landing"}, // same domain as the client
			{URL: ""},
			{URL: "www.rival.com"},
		},
	}

	report := NewAggregator(stub.analyze).Aggregate(context.Background(), clientReport(60), "mysite.com", intel)

	require.Len(t, report.Ranking, 2)
	assert.Equal(t, []string{"www.rival.com"}, stub.seen)
}

func TestAggregate_DropsFailedRivalsSilently(t *testing.T) {
	stub := &stubAnalyzer{reports: map[string]*types.SiteReport{
		"www.alive.com": okReport(30, "Sin Schema"),
		// www.dead.com has no canned report and errors out.
	}}
	intel := &types.MarketIntel{
		Industry: "Retail",
		Competitors: []types.CompetitorCandidate{
			{URL: "www.dead.com"},
			{URL: "www.alive.com"},
		},
	}

	report := NewAggregator(stub.analyze).Aggregate(context.Background(), clientReport(60), "mysite.com", intel)

	require.Len(t, report.Ranking, 2)
	for _, entry := range report.Ranking {
		assert.NotEqual(t, "dead.com", entry.Name)
	}
}

func TestAggregate_CapsCandidatesAtFive(t *testing.T) {
	reports := map[string]*types.SiteReport{}
	candidates := make([]types.CompetitorCandidate, 0, 7)
	for _, url := range []string{"www.a.com", "www.b.com", "www.c.com", "www.d.com", "www.e.com", "www.f.com", "www.g.com"} {
		reports[url] = okReport(10, "Poco texto")
		candidates = append(candidates, types.CompetitorCandidate{URL: url})
	}
	stub := &stubAnalyzer{reports: reports}
	intel := &types.MarketIntel{Industry: "Retail", Competitors: candidates}

	report := NewAggregator(stub.analyze).Aggregate(context.Background(), clientReport(60), "mysite.com", intel)

	assert.Len(t, stub.seen, MaxCompetitors)
	assert.Len(t, report.Ranking, MaxCompetitors+1)
}

func TestAggregate_RivalMetadataDefaults(t *testing.T) {
	stub := &stubAnalyzer{reports: map[string]*types.SiteReport{
		"www.rival.com": okReport(40, "Poco texto"),
	}}
	intel := &types.MarketIntel{
		Industry:    "Retail",
		Competitors: []types.CompetitorCandidate{{URL: "www.rival.com"}}, // no description, no country
	}

	report := NewAggregator(stub.analyze).Aggregate(context.Background(), clientReport(60), "mysite.com", intel)

	require.Len(t, report.Ranking, 2)
	rival := report.Ranking[1]
	assert.Equal(t, "N/A", rival.MarketDescription)
	assert.Equal(t, "Global", rival.Country)
	assert.Equal(t, "www.rival.com", rival.URL) // candidate URL kept as given
}

func TestAggregate_ResolverFallbackLeavesClientAlone(t *testing.T) {
	stub := &stubAnalyzer{reports: map[string]*types.SiteReport{}}
	intel := &types.MarketIntel{Industry: "AI error", Competitors: []types.CompetitorCandidate{}}

	report := NewAggregator(stub.analyze).Aggregate(context.Background(), clientReport(60), "mysite.com", intel)

	require.Len(t, report.Ranking, 1)
	assert.True(t, report.Ranking[0].IsUser)
	assert.Equal(t, "AI error", report.Industry)
	assert.Empty(t, stub.seen)
}

func TestAggregate_ReportEchoesClientScore(t *testing.T) {
	stub := &stubAnalyzer{reports: map[string]*types.SiteReport{
		"www.rival.com": okReport(90, "Óptima"),
	}}
	intel := &types.MarketIntel{
		Industry:    "Retail",
		Competitors: []types.CompetitorCandidate{{URL: "www.rival.com"}},
	}

	report := NewAggregator(stub.analyze).Aggregate(context.Background(), clientReport(42), "mysite.com", intel)

	// The report score is the client's, not the leader's.
	assert.Equal(t, 42, report.Score)
	assert.Equal(t, "Retail", report.Industry)
}
