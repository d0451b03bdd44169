package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/answerscope/aeo-analyzer/internal/types"
)

// clientFetchFailureDiagnosis is returned when the client's own page cannot
// be fetched. Rival failures never surface; this one terminates the request.
const clientFetchFailureDiagnosis = "Could not access your URL"

// handleAnalyze runs the full scoring and competitive ranking pipeline for
// one target URL.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "target_url is required")
		return
	}

	analysisID := uuid.New().String()
	log.Printf("[analysis %s] analyzing %s", analysisID, req.TargetURL)

	ctx := r.Context()

	clientReport := s.analyzer.Analyze(ctx, req.TargetURL)
	if clientReport.Error {
		log.Printf("[analysis %s] client fetch failed: %s", analysisID, clientReport.FailureReason)
		s.jsonResponse(w, http.StatusOK, types.ErrorReport{
			Diagnosis: clientFetchFailureDiagnosis,
			Error:     true,
		})
		return
	}

	intel := s.resolver.Resolve(ctx, clientReport.RawExcerpt, req.TargetURL)
	log.Printf("[analysis %s] industry=%q candidates=%d", analysisID, intel.Industry, len(intel.Competitors))

	report := s.aggregator.Aggregate(ctx, clientReport, req.TargetURL, intel)
	log.Printf("[analysis %s] done: score=%d entries=%d", analysisID, report.Score, len(report.Ranking))

	s.jsonResponse(w, http.StatusOK, report)
}
