package funnel

import (
	"encoding/json"
	"math"
)

// RoundResult is one round's entry in a final interview report.
type RoundResult struct {
	Round  int     `json:"round"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"` // 0-100
	Passed *bool   `json:"passed,omitempty"`
}

// FinalReport is the structured per-round breakdown persisted on an
// InterviewRecord when a session completes all five rounds.
type FinalReport struct {
	Rounds  []RoundResult `json:"rounds"`
	Overall float64       `json:"overall"` // 0-100
	Verdict string        `json:"verdict"`
}

// ScoredRecord is the slice of an interview record the score extractor reads.
type ScoredRecord struct {
	AvgScore       *float64 // 0-10 scale
	RoundBreakdown string   // serialized FinalReport, may be empty or malformed
}

// RoundScores is the extractor output. Approximate is set when the values were
// synthesized from the aggregate average rather than read from a breakdown,
// and callers must label them as such.
type RoundScores struct {
	Round1      *float64      `json:"round1"`
	Round2      *float64      `json:"round2"`
	All         []RoundResult `json:"all,omitempty"`
	Approximate bool          `json:"approximate"`
}

// ExtractRoundScores recovers per-round scores from an interview record.
// A parseable structured breakdown wins and is passed through verbatim.
// Legacy records without one fall back to a synthesized pair derived from the
// aggregate average: round1 = min(100, avg*10+5), round2 = max(0, avg*10-5).
// Malformed breakdown JSON is swallowed and treated as absent.
func ExtractRoundScores(rec ScoredRecord) RoundScores {
	if rec.RoundBreakdown != "" {
		var report FinalReport
		if err := json.Unmarshal([]byte(rec.RoundBreakdown), &report); err == nil && len(report.Rounds) > 0 {
			scores := RoundScores{All: report.Rounds}
			for _, r := range report.Rounds {
				switch r.Round {
				case 1:
					s := r.Score
					scores.Round1 = &s
				case 2:
					s := r.Score
					scores.Round2 = &s
				}
			}
			return scores
		}
	}

	if rec.AvgScore == nil {
		return RoundScores{}
	}

	base := *rec.AvgScore * 10
	r1 := math.Min(100, math.Round(base+5))
	r2 := math.Max(0, math.Round(base-5))
	return RoundScores{Round1: &r1, Round2: &r2, Approximate: true}
}
