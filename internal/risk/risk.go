// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package risk scores contract clauses against a fixed legal checklist.
//
// Scoring is a decision table over the clause title and content, not a
// model: the same clause always yields the same level and score.
package risk

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

// ScoreClause classifies one clause. Rules are evaluated in order and the
// first match wins:
//
//  1. content shorter than 18 characters: High, 40
//  2. title mentions termination and content says "immediate": Medium, 65
//  3. title is a keyword category and content contains one of its terms: High, 50
//  4. otherwise: Low, 90
func ScoreClause(c types.Clause) types.ClauseRisk {
	out := classify(strings.ToLower(c.Title), strings.ToLower(c.Content))
	return types.ClauseRisk{
		Clause:    c,
		RiskLevel: out.level,
		RiskScore: out.score,
	}
}

func classify(title, content string) ruleOutcome {
	switch {
	case utf8.RuneCountInString(strings.TrimSpace(content)) < minContentLen:
		return outcomeThin
	case strings.Contains(title, "termination") && strings.Contains(content, "immediate"):
		return outcomeAbruptEnd
	case containsAny(content, RiskKeywords[title]):
		return outcomeKeyword
	default:
		return outcomeDefault
	}
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// ScoreContract scores every clause and summarizes the contract. The
// contract score is the mean clause score rounded half to even, or 0 when
// there are no clauses.
//
// A required clause counts as present only when some clause title equals it
// case-insensitively: "Indemnification Obligations" does not satisfy
// "indemnification".
func ScoreContract(clauses []types.Clause) types.RiskReport {
	report := types.RiskReport{
		GoodClauses:    []string{},
		CautionClauses: []string{},
		MissingClauses: []string{},
		Clauses:        make([]types.ClauseRisk, 0, len(clauses)),
	}

	found := make(map[string]bool, len(clauses))
	total := 0
	for _, c := range clauses {
		found[strings.ToLower(c.Title)] = true

		cr := ScoreClause(c)
		report.Clauses = append(report.Clauses, cr)
		total += cr.RiskScore

		if cr.RiskLevel == types.RiskLow {
			report.GoodClauses = append(report.GoodClauses, c.Title)
		} else {
			report.CautionClauses = append(report.CautionClauses, c.Title)
		}
	}

	for _, req := range RequiredClauses {
		if !found[req] {
			report.MissingClauses = append(report.MissingClauses, req)
		}
	}

	if len(clauses) > 0 {
		report.RiskScore = int(math.RoundToEven(float64(total) / float64(len(clauses))))
	}
	report.RiskLevel = ContractLevel(report.RiskScore)

	return report
}

// ContractLevel maps a contract score to its level.
func ContractLevel(score int) types.ContractRiskLevel {
	switch {
	case score <= highRiskMax:
		return types.ContractHigh
	case score <= mediumRiskMax:
		return types.ContractMedium
	default:
		return types.ContractLow
	}
}
