// Package model contains domain models passed between layers.
package model

// RiskFactor is a named, user-adjustable intensity on a 0..10 scale.
type RiskFactor struct {
	Name      string `json:"name"`
	Intensity int    `json:"intensity"`
}

// AthleteProfile is the input to the injury risk model.
// RiskFactors is ordered; the order breaks ties in the contribution ranking.
type AthleteProfile struct {
	Age                  int          `json:"age"`
	Weight               float64      `json:"weight"` // kg
	Height               float64      `json:"height"` // cm
	TrainingHoursPerWeek float64      `json:"training_hours_per_week"`
	PreviousInjuries     int          `json:"previous_injuries"`
	CompetitionsPerYear  int          `json:"competitions_per_year"`
	RiskFactors          []RiskFactor `json:"risk_factors"`
}

// FactorContribution is one row of the risk breakdown.
type FactorContribution struct {
	Factor       string `json:"factor"`
	Contribution int    `json:"contribution"`
}

// RiskPrediction is an immutable scoring result.
type RiskPrediction struct {
	Risk    int                  `json:"risk"`
	Level   string               `json:"level"`
	Factors []FactorContribution `json:"factors"`
}
