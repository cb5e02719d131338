// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package risk

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

func clause(n int, title, content string) types.Clause {
	return types.Clause{ClauseNumber: n, SectionNumber: fmt.Sprint(n), Title: title, Content: content}
}

// --- ScoreClause ---

func TestScoreClause(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		content   string
		wantLevel types.RiskLevel
		wantScore int
	}{
		{"empty content", "Payment Terms", "", types.RiskHigh, 40},
		{"17 characters is thin", "Payment Terms", "Payment due soon.", types.RiskHigh, 40},
		{"18 characters is enough", "Payment Terms", "Payment due today.", types.RiskLow, 90},
		{"thin after trimming", "Payment Terms", "   Payment due.        ", types.RiskHigh, 40},
		{"thin wins over termination rule", "Termination", "immediate end.", types.RiskHigh, 40},
		{"termination immediate", "Termination", "Either party may terminate this agreement immediately without notice.", types.RiskMedium, 65},
		{"termination substring title", "Early Termination Rights", "Termination is immediate upon breach.", types.RiskMedium, 65},
		{"termination case-insensitive", "TERMINATION", "Termination is IMMEDIATE upon breach.", types.RiskMedium, 65},
		{"termination keyword", "Termination", "The buyer may end this at its sole discretion.", types.RiskHigh, 50},
		{"keyword needs exact category title", "Early Termination", "The buyer may end this at its sole discretion.", types.RiskLow, 90},
		{"confidentiality bare word", "Confidentiality", "The parties agree to keep all information confidential indefinitely.", types.RiskLow, 90},
		{"confidentiality phrase", "Confidentiality", "Neither party shall share confidential information with others.", types.RiskHigh, 50},
		{"confidentiality disclose", "confidentiality", "Recipient may disclose to its advisers.", types.RiskHigh, 50},
		{"governing law", "Governing Law", "This agreement is governed by the laws of Ontario.", types.RiskHigh, 50},
		{"indemnification", "Indemnification", "Supplier shall hold harmless the buyer.", types.RiskHigh, 50},
		{"unknown category", "Force Majeure", "Neither party is liable for acts of god.", types.RiskLow, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := clause(3, tt.title, tt.content)
			got := ScoreClause(c)
			assert.Equal(t, tt.wantLevel, got.RiskLevel)
			assert.Equal(t, tt.wantScore, got.RiskScore)
			assert.Equal(t, c, got.Clause, "clause detail must be carried through")
		})
	}
}

func TestScoreClauseDeterministic(t *testing.T) {
	c := clause(1, "Termination", "Termination is immediate upon breach.")
	first := ScoreClause(c)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ScoreClause(c))
	}
}

// --- ScoreContract ---

func TestScoreContractScenarioA(t *testing.T) {
	clauses := []types.Clause{
		clause(1, "Termination", "Either party may terminate this agreement immediately without notice."),
		clause(2, "Confidentiality", "The parties agree to keep all information confidential indefinitely."),
	}

	report := ScoreContract(clauses)

	require.Len(t, report.Clauses, 2)
	assert.Equal(t, types.RiskMedium, report.Clauses[0].RiskLevel)
	assert.Equal(t, 65, report.Clauses[0].RiskScore)
	assert.Equal(t, types.RiskLow, report.Clauses[1].RiskLevel)
	assert.Equal(t, 90, report.Clauses[1].RiskScore)

	// (65 + 90) / 2 = 77.5 rounds half to even.
	assert.Equal(t, 78, report.RiskScore)
	assert.Equal(t, types.ContractLow, report.RiskLevel)
	assert.Equal(t, []string{"Confidentiality"}, report.GoodClauses)
	assert.Equal(t, []string{"Termination"}, report.CautionClauses)
	assert.Equal(t, []string{
		"indemnification", "governing law", "dispute resolution",
		"force majeure", "payment terms", "intellectual property",
	}, report.MissingClauses)
}

func TestScoreContractScenarioB(t *testing.T) {
	report := ScoreContract(nil)

	assert.Equal(t, types.RiskReport{
		RiskScore:      0,
		RiskLevel:      types.ContractHigh,
		GoodClauses:    []string{},
		CautionClauses: []string{},
		MissingClauses: RequiredClauses,
		Clauses:        []types.ClauseRisk{},
	}, report)
}

func TestScoreContractMissingExactMatch(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		wantMissing bool
		required    string
	}{
		{"exact title", "Governing Law", false, "governing law"},
		{"uppercase title", "GOVERNING LAW", false, "governing law"},
		{"synonym does not count", "Applicable Law", true, "governing law"},
		{"longer title does not count", "Indemnification Obligations", true, "indemnification"},
		{"surrounding text does not count", "Payment Terms and Invoicing", true, "payment terms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ScoreContract([]types.Clause{
				clause(1, tt.title, "This clause has a reasonably long body."),
			})
			if tt.wantMissing {
				assert.Contains(t, report.MissingClauses, tt.required)
			} else {
				assert.NotContains(t, report.MissingClauses, tt.required)
			}
			assert.Len(t, report.MissingClauses, len(RequiredClauses)-btoi(!tt.wantMissing))
		})
	}
}

func TestScoreContractRounding(t *testing.T) {
	tests := []struct {
		name      string
		clauses   []types.Clause
		wantScore int
		wantLevel types.ContractRiskLevel
	}{
		{
			name: "52.5 rounds to 52",
			clauses: []types.Clause{
				clause(1, "Notes", "short"),
				clause(2, "Termination", "Termination is immediate upon breach."),
			},
			wantScore: 52,
			wantLevel: types.ContractHigh,
		},
		{
			name: "68.33 rounds to 68",
			clauses: []types.Clause{
				clause(1, "Scope", "The services are described in the order form."),
				clause(2, "Termination", "Termination is immediate upon breach."),
				clause(3, "Governing Law", "Disputes go to the courts of the jurisdiction."),
			},
			wantScore: 68,
			wantLevel: types.ContractMedium,
		},
		{
			name: "all low",
			clauses: []types.Clause{
				clause(1, "Scope", "The services are described in the order form."),
			},
			wantScore: 90,
			wantLevel: types.ContractLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ScoreContract(tt.clauses)
			assert.Equal(t, tt.wantScore, report.RiskScore)
			assert.Equal(t, tt.wantLevel, report.RiskLevel)
		})
	}
}

func TestScoreContractAggregate(t *testing.T) {
	contents := []string{
		"tiny",
		"Termination is immediate upon breach.",
		"Recipient may disclose to its advisers.",
		"A perfectly ordinary clause body.",
	}
	titles := []string{"Termination", "Confidentiality", "Scope", "Notices"}

	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		n := rng.Intn(12)
		clauses := make([]types.Clause, n)
		for i := range clauses {
			clauses[i] = clause(i+1, titles[rng.Intn(len(titles))], contents[rng.Intn(len(contents))])
		}

		report := ScoreContract(clauses)

		require.Len(t, report.Clauses, n)
		sum := 0
		for _, c := range report.Clauses {
			sum += c.RiskScore
		}
		want := 0
		if n > 0 {
			want = int(math.RoundToEven(float64(sum) / float64(n)))
		}
		assert.Equal(t, want, report.RiskScore, "run %d", run)
		assert.Equal(t, n, len(report.GoodClauses)+len(report.CautionClauses))
	}
}

func TestContractLevel(t *testing.T) {
	tests := []struct {
		score int
		want  types.ContractRiskLevel
	}{
		{0, types.ContractHigh},
		{55, types.ContractHigh},
		{56, types.ContractMedium},
		{75, types.ContractMedium},
		{76, types.ContractLow},
		{100, types.ContractLow},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.score), func(t *testing.T) {
			assert.Equal(t, tt.want, ContractLevel(tt.score))
		})
	}
}

func TestTables(t *testing.T) {
	assert.Len(t, RequiredClauses, 8)
	for _, req := range RequiredClauses {
		assert.Equal(t, strings.ToLower(req), req, "required clause %q must be lowercase", req)
	}
	for category, terms := range RiskKeywords {
		assert.Equal(t, strings.ToLower(category), category)
		assert.NotEmpty(t, terms, "category %q has no terms", category)
	}
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
