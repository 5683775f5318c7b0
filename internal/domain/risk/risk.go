// Package risk implements the deterministic injury risk model.
//
// Score is pure: the same profile always yields the same prediction, and
// the contribution ranking is a stable sort so equal contributions keep the
// order in which they were enumerated (risk factors first, in profile order,
// then the five base components).
package risk

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/fightlab/internal/domain/model"
)

// Band thresholds and weights of the base risk.
const (
	ageThreshold        = 30
	ageHighBand         = 10
	ageLowBand          = 5
	weightThreshold     = 80.0
	weightBand          = 5
	trainingHighHours   = 20.0
	trainingMidHours    = 10.0
	trainingHighBand    = 15
	trainingMidBand     = 5
	perPreviousInjury   = 10
	perCompetition      = 2
	factorAdjustmentMul = 10.0
	factorContribution  = 2

	maxRisk      = 100
	maxCount     = 1000
	minIntensity = 0
	maxIntensity = 10

	lowRiskBelow      = 30
	moderateRiskBelow = 60
)

// Risk levels as shown next to the percentage.
const (
	LevelLow      = "low"
	LevelModerate = "moderate"
	LevelHigh     = "high"
)

// Names of the base components in the breakdown.
const (
	FactorAge                  = "Age"
	FactorWeight               = "Weight"
	FactorTrainingVolume       = "Training Volume"
	FactorPreviousInjuries     = "Previous Injuries"
	FactorCompetitionFrequency = "Competition Frequency"
)

// DefaultFactors is the known risk factor set, in enumeration order.
var DefaultFactors = []string{
	"Overtraining",
	"Poor Technique",
	"Inadequate Recovery",
	"Nutritional Deficits",
	"Sleep Quality",
	"Stress Levels",
}

// NewProfile returns the starting profile offered to users, with every
// known risk factor at zero.
func NewProfile() model.AthleteProfile {
	factors := make([]model.RiskFactor, len(DefaultFactors))
	for i, name := range DefaultFactors {
		factors[i] = model.RiskFactor{Name: name}
	}
	return model.AthleteProfile{
		Age:                  25,
		Weight:               70,
		Height:               175,
		TrainingHoursPerWeek: 12,
		PreviousInjuries:     2,
		CompetitionsPerYear:  6,
		RiskFactors:          factors,
	}
}

// components holds the base risk bands for a profile.
type components struct {
	age          int
	weight       int
	training     int
	injuries     int
	competitions int
}

func baseComponents(p model.AthleteProfile) components {
	c := components{
		age:          ageLowBand,
		injuries:     saturate(p.PreviousInjuries) * perPreviousInjury,
		competitions: saturate(p.CompetitionsPerYear) * perCompetition,
	}
	if p.Age > ageThreshold {
		c.age = ageHighBand
	}
	if p.Weight > weightThreshold {
		c.weight = weightBand
	}
	switch {
	case p.TrainingHoursPerWeek > trainingHighHours:
		c.training = trainingHighBand
	case p.TrainingHoursPerWeek > trainingMidHours:
		c.training = trainingMidBand
	}
	return c
}

// saturate bounds a count to [0, maxCount] so band products cannot overflow.
func saturate(n int) int {
	return max(0, min(n, maxCount))
}

func (c components) sum() int {
	return c.age + c.weight + c.training + c.injuries + c.competitions
}

// factorAdjustment is the mean factor intensity scaled to 0..100.
func factorAdjustment(factors []model.RiskFactor) float64 {
	if len(factors) == 0 {
		return 0
	}
	total := 0
	for _, f := range factors {
		total += f.Intensity
	}
	return float64(total) / float64(len(factors)) * factorAdjustmentMul
}

// Score computes the risk prediction for p. Callers are expected to run
// Validate first; Score still clamps the total into [0, 100].
func Score(p model.AthleteProfile) model.RiskPrediction {
	c := baseComponents(p)

	total := float64(c.sum()) + factorAdjustment(p.RiskFactors)
	total = math.Max(0, math.Min(maxRisk, total))
	risk := int(math.Floor(total + 0.5)) // round half up

	return model.RiskPrediction{
		Risk:    risk,
		Level:   Level(risk),
		Factors: contributions(p, c),
	}
}

func contributions(p model.AthleteProfile, c components) []model.FactorContribution {
	out := make([]model.FactorContribution, 0, len(p.RiskFactors)+5)
	for _, f := range p.RiskFactors {
		out = append(out, model.FactorContribution{Factor: f.Name, Contribution: f.Intensity * factorContribution})
	}
	out = append(out,
		model.FactorContribution{Factor: FactorAge, Contribution: c.age},
		model.FactorContribution{Factor: FactorWeight, Contribution: c.weight},
		model.FactorContribution{Factor: FactorTrainingVolume, Contribution: c.training},
		model.FactorContribution{Factor: FactorPreviousInjuries, Contribution: c.injuries},
		model.FactorContribution{Factor: FactorCompetitionFrequency, Contribution: c.competitions},
	)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Contribution > out[j].Contribution
	})
	return out
}

// Level maps a risk percentage to its band.
func Level(risk int) string {
	switch {
	case risk < lowRiskBelow:
		return LevelLow
	case risk < moderateRiskBelow:
		return LevelModerate
	default:
		return LevelHigh
	}
}

// Validate checks p against the model's input domain.
func Validate(p model.AthleteProfile) error {
	switch {
	case p.Age < 0:
		return fmt.Errorf("%w: age must be >= 0", ErrInvalidProfile)
	case invalidMeasure(p.Weight):
		return fmt.Errorf("%w: weight must be a finite value >= 0", ErrInvalidProfile)
	case invalidMeasure(p.Height):
		return fmt.Errorf("%w: height must be a finite value >= 0", ErrInvalidProfile)
	case invalidMeasure(p.TrainingHoursPerWeek):
		return fmt.Errorf("%w: training_hours_per_week must be a finite value >= 0", ErrInvalidProfile)
	case p.PreviousInjuries < 0 || p.PreviousInjuries > maxCount:
		return fmt.Errorf("%w: previous_injuries must be within [0,%d]", ErrInvalidProfile, maxCount)
	case p.CompetitionsPerYear < 0 || p.CompetitionsPerYear > maxCount:
		return fmt.Errorf("%w: competitions_per_year must be within [0,%d]", ErrInvalidProfile, maxCount)
	}

	seen := make(map[string]struct{}, len(p.RiskFactors))
	for _, f := range p.RiskFactors {
		if !IsKnownFactor(f.Name) {
			return fmt.Errorf("%w: unknown risk factor %q", ErrInvalidProfile, f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: duplicate risk factor %q", ErrInvalidProfile, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Intensity < minIntensity || f.Intensity > maxIntensity {
			return fmt.Errorf("%w: risk factor %q intensity %d outside [%d,%d]",
				ErrInvalidProfile, f.Name, f.Intensity, minIntensity, maxIntensity)
		}
	}
	return nil
}

// IsKnownFactor reports whether name belongs to DefaultFactors.
func IsKnownFactor(name string) bool {
	for _, known := range DefaultFactors {
		if known == name {
			return true
		}
	}
	return false
}

func invalidMeasure(v float64) bool {
	return v < 0 || math.IsNaN(v) || math.IsInf(v, 0)
}
