// Package types provides type definitions for the analysis pipeline and the
// public API surface of the AEO analyzer.
package types

import (
	"github.com/go-playground/validator/v10"
)

// SubScores holds the four [0,1] component metrics behind a PAA score.
type SubScores struct {
	SchemaPresence float64
	HeadingScore   float64
	DensityScore   float64
	TitleScore     float64
}

// PageMetrics holds raw page measurements kept for display purposes.
type PageMetrics struct {
	H1Count      int
	DensityRatio float64
}

// SiteReport is the outcome of one fetch-and-score attempt against a single
// page. When Error is true only FailureReason is meaningful and the report is
// excluded from ranking.
type SiteReport struct {
	URL           string
	Score         int
	Error         bool
	FailureReason string
	SubScores     SubScores
	Metrics       PageMetrics
	Opportunities []string
	ReasonSummary string
	RawExcerpt    string
}

// CompetitorCandidate is one rival suggested by the competitor resolver.
type CompetitorCandidate struct {
	URL         string `json:"url"`
	Description string `json:"description"`
	Country     string `json:"country"`
}

// MarketIntel is the structured result of the competitor resolver.
type MarketIntel struct {
	Industry    string                `json:"industry"`
	Competitors []CompetitorCandidate `json:"competitors"`
}

// RankingEntry is one row of the comparative leaderboard. The wire field names
// are kept from the original frontend contract.
type RankingEntry struct {
	Position          int      `json:"posicion"`
	Name              string   `json:"empresa"`
	URL               string   `json:"url"`
	Score             int      `json:"score"`
	ReasonSummary     string   `json:"detalles"`
	IsUser            bool     `json:"es_usuario"`
	Opportunities     []string `json:"oportunidades,omitempty"`
	MarketDescription string   `json:"descripcion_mercado"`
	Country           string   `json:"pais"`
}

// AnalysisReport is the terminal output of one analysis request.
type AnalysisReport struct {
	Score     int            `json:"puntuacion"`
	Diagnosis string         `json:"diagnostico"`
	Industry  string         `json:"industria"`
	Ranking   []RankingEntry `json:"ranking_completo"`
}

// ErrorReport is returned when the client's own page cannot be fetched.
type ErrorReport struct {
	Score     int    `json:"puntuacion"`
	Diagnosis string `json:"diagnostico"`
	Error     bool   `json:"error"`
}

// AnalyzeRequest represents the request body for POST /analyze.
type AnalyzeRequest struct {
	TargetURL string `json:"target_url" validate:"required"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
