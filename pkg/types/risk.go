// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RiskLevel classifies a single clause.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ContractRiskLevel classifies a whole contract. It is the uppercased form
// of the clause levels.
type ContractRiskLevel string

const (
	ContractLow    ContractRiskLevel = "LOW"
	ContractMedium ContractRiskLevel = "MEDIUM"
	ContractHigh   ContractRiskLevel = "HIGH"
)

// ClauseRisk is a clause together with its risk classification.
type ClauseRisk struct {
	Clause `yaml:",inline"`

	RiskLevel RiskLevel `json:"risk_level" yaml:"risk_level"`

	// RiskScore is in [0,100]; higher is safer.
	RiskScore int `json:"risk_score" yaml:"risk_score"`
}

// RiskReport summarizes the risk of a contract's clause set. It is computed
// fresh on every request and never cached.
type RiskReport struct {
	// RiskScore is the rounded mean of the clause scores, 0 for no clauses.
	RiskScore int               `json:"risk_score" yaml:"risk_score"`
	RiskLevel ContractRiskLevel `json:"risk_level" yaml:"risk_level"`

	// GoodClauses lists titles of Low-risk clauses.
	GoodClauses []string `json:"good_clauses" yaml:"good_clauses"`

	// CautionClauses lists titles of Medium and High-risk clauses.
	CautionClauses []string `json:"caution_clauses" yaml:"caution_clauses"`

	// MissingClauses lists required clause types with no exactly matching title.
	MissingClauses []string `json:"missing_clauses" yaml:"missing_clauses"`

	Clauses []ClauseRisk `json:"clauses" yaml:"clauses"`
}
