// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package risk

import "github.com/pdiddy/knowledge-hub/pkg/types"

// RequiredClauses is the checklist every contract is expected to cover, in
// report order. Entries are lowercase; a clause satisfies an entry only when
// its lowercased title is exactly equal to it.
var RequiredClauses = []string{
	"indemnification",
	"governing law",
	"dispute resolution",
	"confidentiality",
	"force majeure",
	"termination",
	"payment terms",
	"intellectual property",
}

// RiskKeywords maps a lowercase clause title to content substrings that
// flag the clause as risky.
var RiskKeywords = map[string][]string{
	"termination":     {"at-will", "immediate", "without notice", "sole discretion"},
	"governing law":   {"laws of", "jurisdiction", "venue"},
	"confidentiality": {"disclose", "confidential information", "non-disclosure"},
	"indemnification": {"hold harmless", "indemnify", "liability"},
}

// Rule outcomes, in evaluation order.
const (
	// minContentLen is the shortest clause body, in characters, not treated as too thin.
	minContentLen = 18

	thinScore        = 40
	abruptEndScore   = 65
	keywordRiskScore = 50
	defaultScore     = 90
)

// Contract thresholds: a mean at or below highRiskMax is HIGH, at or below
// mediumRiskMax is MEDIUM, otherwise LOW.
const (
	highRiskMax   = 55
	mediumRiskMax = 75
)

// ruleOutcome pairs a level with its score.
type ruleOutcome struct {
	level types.RiskLevel
	score int
}

var (
	outcomeThin      = ruleOutcome{types.RiskHigh, thinScore}
	outcomeAbruptEnd = ruleOutcome{types.RiskMedium, abruptEndScore}
	outcomeKeyword   = ruleOutcome{types.RiskHigh, keywordRiskScore}
	outcomeDefault   = ruleOutcome{types.RiskLow, defaultScore}
)
