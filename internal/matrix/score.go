package matrix

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// WeightRule maps positions to score weights for one bill.
type WeightRule map[Position]decimal.Decimal

// Weights holds per-bill scoring rules, keyed by canonical bill id.
type Weights map[string]WeightRule

// ParseWeights decodes a weights document:
//
//	{"118:hr:8034": {"Yea": -1, "Nay": 1, "Present": 0.5}}
//
// Bill ids must have the canonical shape and position keys must be in
// the recognized enumeration.
func ParseWeights(data []byte) (Weights, error) {
	var raw map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding weights: %w", err)
	}

	weights := make(Weights, len(raw))
	for billID, rule := range raw {
		bill, err := ParseBillID(billID)
		if err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
		parsed := make(WeightRule, len(rule))
		for pos, w := range rule {
			p := Position(pos)
			if !p.Valid() {
				return nil, &InvalidPositionError{Raw: pos}
			}
			parsed[p] = w
		}
		weights[bill.String()] = parsed
	}
	return weights, nil
}

// MemberScore is one legislator's weighted total across all bills, with
// competition rank (ties share a rank) and rank percentile.
type MemberScore struct {
	Legislator
	Total   decimal.Decimal `json:"total"`
	Rank    int             `json:"rank"`
	Percent float64         `json:"percent"`
}

// ComputeScores scores every matrix row against the per-bill rules. A
// missing cell, or a position a bill's rule does not map, contributes
// defaultWeight. Results are sorted by total descending, ties broken by
// legislator id.
func ComputeScores(m *Matrix, weights Weights, defaultWeight decimal.Decimal) []MemberScore {
	scores := make([]MemberScore, 0, len(m.Legislators))

	for _, leg := range m.Legislators {
		total := decimal.Zero
		for _, billID := range m.Bills {
			w := defaultWeight
			if pos, ok := m.Cell(leg.ID, billID); ok {
				if mapped, ok := weights[billID][pos]; ok {
					w = mapped
				}
			}
			total = total.Add(w)
		}
		scores = append(scores, MemberScore{Legislator: leg, Total: total})
	}

	sort.Slice(scores, func(i, j int) bool {
		if !scores[i].Total.Equal(scores[j].Total) {
			return scores[i].Total.GreaterThan(scores[j].Total)
		}
		return scores[i].ID < scores[j].ID
	})

	// Competition ranking: equal totals share the rank of their first
	// occurrence.
	for i := range scores {
		if i > 0 && scores[i].Total.Equal(scores[i-1].Total) {
			scores[i].Rank = scores[i-1].Rank
		} else {
			scores[i].Rank = i + 1
		}
		pct := float64(scores[i].Rank) / float64(len(scores)) * 100
		scores[i].Percent = roundTenth(pct)
	}

	return scores
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
