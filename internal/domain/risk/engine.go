// Package risk turns a loan amount into a score, a grade and a decision.
package risk

import "github.com/shopspring/decimal"

type Grade string

const (
	GradeLow    Grade = "Low"
	GradeMedium Grade = "Medium"
	GradeHigh   Grade = "High"
)

type Decision string

const (
	DecisionApprove Decision = "Approve"
	DecisionReject  Decision = "Reject"
)

var (
	maxScore          = decimal.NewFromInt(100)
	minScore          = decimal.Zero
	amountPerPoint    = decimal.NewFromInt(10000)
	lowRiskThreshold  = decimal.NewFromInt(75)
	highRiskThreshold = decimal.NewFromInt(50)
)

// Assessment is the outcome of evaluating one loan amount.
type Assessment struct {
	Score    decimal.Decimal
	Grade    Grade
	Decision Decision
}

// Evaluate scores a loan by its amount alone:
//
//	raw   = 100 - amount/10000
//	score = raw clamped to [0, 100]
//	grade = Low (raw >= 75), Medium (50 <= raw < 75), High (raw < 50)
//
// The grade is read from raw, before clamping. A High grade rejects the loan.
func Evaluate(amount decimal.Decimal) Assessment {
	raw := maxScore.Sub(amount.Div(amountPerPoint))
	score := decimal.Max(decimal.Min(raw, maxScore), minScore)

	grade := gradeFor(raw)
	decision := DecisionApprove
	if grade == GradeHigh {
		decision = DecisionReject
	}

	return Assessment{Score: score, Grade: grade, Decision: decision}
}

func gradeFor(raw decimal.Decimal) Grade {
	switch {
	case raw.GreaterThanOrEqual(lowRiskThreshold):
		return GradeLow
	case raw.GreaterThanOrEqual(highRiskThreshold):
		return GradeMedium
	default:
		return GradeHigh
	}
}

func (g Grade) Valid() bool {
	switch g {
	case GradeLow, GradeMedium, GradeHigh:
		return true
	}
	return false
}
