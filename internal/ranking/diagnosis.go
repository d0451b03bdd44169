package ranking

import (
	"fmt"
	"strings"

	"github.com/answerscope/aeo-analyzer/internal/types"
)

// Diagnostic tier labels, evaluated in order.
const (
	tierLeader        = "🏆 Absolute leader!"
	tierContender     = "You're in contention, but there's room to improve."
	tierFallingBehind = "🚨 You're falling behind! Urgent action required."
)

// Score floors for the diagnostic tiers.
const (
	leaderScoreFloor    = 70
	contenderScoreFloor = 50
)

// diagnose classifies the outcome into a tier and composes the comparative
// narrative against the strongest rival. entries must already be sorted and
// contain at least the client's own row.
func diagnose(clientScore, userRank int, entries []types.RankingEntry) string {
	var tier string
	switch {
	case userRank == 1 && clientScore >= leaderScoreFloor:
		tier = tierLeader
	case clientScore >= contenderScoreFloor:
		tier = tierContender
	default:
		tier = tierFallingBehind
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Your PAA score is **%d/100** (position #%d of %d sites analyzed).",
		clientScore, userRank, len(entries))

	if top := entries[0]; !top.IsUser {
		fmt.Fprintf(&sb, "\n\n**RIVAL ANALYSIS:** The leader is **%s** (%s) with a PAA score of %d. ",
			top.Name, top.Country, top.Score)
		fmt.Fprintf(&sb, "Their strength lies in: **%s**. ", top.ReasonSummary)
		if top.Score > clientScore {
			sb.WriteString("Improve your Schema and content density to close the gap.")
		} else {
			sb.WriteString("Your content strategy is dominating your strongest rivals!")
		}
	}

	return tier + " | " + sb.String()
}
