package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/claudemirLima/changeApp/internal/models"
)

// Risk thresholds are strict: a score exactly on a boundary falls into the
// milder class.
var (
	riskRejectThreshold  = decimal.RequireFromString("0.7")
	riskWarningThreshold = decimal.RequireFromString("0.4")
	multiplierThreshold  = decimal.RequireFromString("1.5")
	multiplierPenalty    = decimal.RequireFromString("0.1")
)

// referenceRates are the fixed reference values risk deviation is measured
// against. Unlisted pairs use a neutral reference of 1.
var referenceRates = map[string]decimal.Decimal{
	"ORO->TIB": decimal.RequireFromString("2.5"),
	"TIB->ORO": decimal.RequireFromString("0.4"),
}

// RiskAssessment is the guard-rail verdict on a computed conversion. The
// analyzer never approves outright: the mildest outcome still requires an
// explicit confirmation.
type RiskAssessment struct {
	Status           models.TransactionStatus
	Reason           string
	RiskScore        decimal.Decimal
	Warnings         []string
	Recommendations  []string
	CanProceed       bool
	RequiresApproval bool
}

// RiskAnalyzer scores a conversion by how far the applied rate deviates
// from the pair's reference rate.
type RiskAnalyzer interface {
	Analyze(from, to string, appliedRate, multiplier decimal.Decimal) *RiskAssessment
}

type riskAnalyzer struct {
	logger *logrus.Logger
}

func NewRiskAnalyzer(logger *logrus.Logger) RiskAnalyzer {
	return &riskAnalyzer{logger: logger}
}

func (a *riskAnalyzer) Analyze(from, to string, appliedRate, multiplier decimal.Decimal) *RiskAssessment {
	reference := referenceRate(from, to)
	variation := rateVariation(appliedRate, reference)

	score := variation.Abs()
	if score.GreaterThan(one) {
		score = one
	}

	if multiplier.GreaterThan(multiplierThreshold) {
		score = score.Add(multiplierPenalty)
		if score.GreaterThan(one) {
			score = one
		}
	}

	assessment := a.classify(score, variation, multiplier)

	a.logger.Debugf("Risk analysis %s->%s: applied=%s reference=%s variation=%s score=%s status=%s",
		from, to, appliedRate, reference, variation, score, assessment.Status)

	return assessment
}

func (a *riskAnalyzer) classify(score, variation, multiplier decimal.Decimal) *RiskAssessment {
	switch {
	case score.GreaterThan(riskRejectThreshold):
		return &RiskAssessment{
			Status:    models.TransactionStatusNotApproved,
			Reason:    fmt.Sprintf("Rate too unfavorable (%s%% variation)", variationPercent(variation)),
			RiskScore: score,
			Warnings:  appendMultiplierNote([]string{"Anomalous unfavorable rate detected"}, multiplier),
			Recommendations: []string{
				"Review the applied exchange rate before retrying",
			},
			CanProceed:       false,
			RequiresApproval: false,
		}

	case score.GreaterThan(riskWarningThreshold):
		return &RiskAssessment{
			Status:    models.TransactionStatusWarning,
			Reason:    fmt.Sprintf("Rate outside the normal range (%s%% variation)", variationPercent(variation)),
			RiskScore: score,
			Warnings:  appendMultiplierNote([]string{"Applied rate deviates from the reference rate"}, multiplier),
			Recommendations: []string{
				"Verify the conversion conditions before proceeding",
			},
			CanProceed:       true,
			RequiresApproval: true,
		}

	default:
		return &RiskAssessment{
			Status:    models.TransactionStatusRequested,
			Reason:    "Conversion awaiting confirmation",
			RiskScore: score,
			Recommendations: []string{
				"Confirm the transaction to complete the conversion",
				"The confirmation window expires in 30 minutes",
			},
			CanProceed:       true,
			RequiresApproval: true,
		}
	}
}

// variationPercent renders the variation as a percentage with one decimal
// place for reason messages.
func variationPercent(variation decimal.Decimal) string {
	return variation.Mul(decimal.NewFromInt(100)).StringFixed(1)
}

// appendMultiplierNote records the product multiplier on risky outcomes
// whenever one other than the neutral 1 was applied.
func appendMultiplierNote(warnings []string, multiplier decimal.Decimal) []string {
	if !multiplier.Equal(one) {
		warnings = append(warnings, "Multiplier applied: "+multiplier.String())
	}
	return warnings
}

// referenceRate returns the fixed reference for the pair, neutral when the
// pair has none.
func referenceRate(from, to string) decimal.Decimal {
	if rate, ok := referenceRates[from+"->"+to]; ok {
		return rate
	}
	return one
}

// rateVariation is the relative deviation of the applied rate from the
// reference. A zero reference yields zero variation rather than a division
// error.
func rateVariation(applied, reference decimal.Decimal) decimal.Decimal {
	if reference.IsZero() {
		return decimal.Zero
	}
	return applied.Sub(reference).Div(reference)
}
