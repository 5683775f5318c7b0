package risk_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/fightlab/internal/domain/model"
	"github.com/okian/fightlab/internal/domain/risk"
	. "github.com/smartystreets/goconvey/convey"
)

func factorNames(p model.RiskPrediction) []string {
	names := make([]string, len(p.Factors))
	for i, f := range p.Factors {
		names[i] = f.Factor
	}
	return names
}

func withFactor(p model.AthleteProfile, name string, intensity int) model.AthleteProfile {
	factors := make([]model.RiskFactor, len(p.RiskFactors))
	copy(factors, p.RiskFactors)
	for i := range factors {
		if factors[i].Name == name {
			factors[i].Intensity = intensity
		}
	}
	p.RiskFactors = factors
	return p
}

func TestScore(t *testing.T) {
	Convey("Given the default athlete profile", t, func() {
		profile := risk.NewProfile()

		Convey("When scoring it", func() {
			pred := risk.Score(profile)

			Convey("Then base bands add up to 42", func() {
				So(pred.Risk, ShouldEqual, 42)
				So(pred.Level, ShouldEqual, risk.LevelModerate)
			})

			Convey("And the breakdown has one row per factor plus five base rows", func() {
				So(len(pred.Factors), ShouldEqual, len(risk.DefaultFactors)+5)
			})

			Convey("And rows are ranked descending with ties kept in enumeration order", func() {
				So(factorNames(pred), ShouldResemble, []string{
					risk.FactorPreviousInjuries,
					risk.FactorCompetitionFrequency,
					risk.FactorAge,
					risk.FactorTrainingVolume,
					"Overtraining",
					"Poor Technique",
					"Inadequate Recovery",
					"Nutritional Deficits",
					"Sleep Quality",
					"Stress Levels",
					risk.FactorWeight,
				})
				So(pred.Factors[0].Contribution, ShouldEqual, 20)
				So(pred.Factors[1].Contribution, ShouldEqual, 12)
			})
		})

		Convey("When training volume exceeds 20 hours", func() {
			profile.TrainingHoursPerWeek = 25
			pred := risk.Score(profile)

			Convey("Then the training band becomes 15", func() {
				So(pred.Risk, ShouldEqual, 52)
			})
		})

		Convey("When training volume is exactly 20 hours", func() {
			profile.TrainingHoursPerWeek = 20
			So(risk.Score(profile).Risk, ShouldEqual, 42)
		})

		Convey("When training volume is 10 hours or less", func() {
			profile.TrainingHoursPerWeek = 10
			So(risk.Score(profile).Risk, ShouldEqual, 37)
		})

		Convey("When the athlete is older than 30 and heavier than 80kg", func() {
			profile.Age = 31
			profile.Weight = 80.5
			So(risk.Score(profile).Risk, ShouldEqual, 52)
		})

		Convey("When the base risk overflows", func() {
			profile.PreviousInjuries = 12
			pred := risk.Score(profile)

			Convey("Then risk is capped at 100", func() {
				So(pred.Risk, ShouldEqual, 100)
				So(pred.Level, ShouldEqual, risk.LevelHigh)
			})

			Convey("And contributions are not capped", func() {
				So(pred.Factors[0].Factor, ShouldEqual, risk.FactorPreviousInjuries)
				So(pred.Factors[0].Contribution, ShouldEqual, 120)
			})
		})

		Convey("When every risk factor is at maximum", func() {
			for _, name := range risk.DefaultFactors {
				profile = withFactor(profile, name, 10)
			}
			pred := risk.Score(profile)

			Convey("Then the adjustment of 100 pushes the total to the cap", func() {
				So(pred.Risk, ShouldEqual, 100)
			})
		})

		Convey("When a single factor is raised", func() {
			profile = withFactor(profile, "Overtraining", 1)
			pred := risk.Score(profile)

			Convey("Then the mean adjustment is rounded into the total", func() {
				// 42 + 1/6*10 = 43.67
				So(pred.Risk, ShouldEqual, 44)
			})
		})

		Convey("When the adjustment lands exactly on .5", func() {
			profile.RiskFactors = []model.RiskFactor{
				{Name: "Overtraining", Intensity: 1},
				{Name: "Poor Technique"},
				{Name: "Sleep Quality"},
				{Name: "Stress Levels"},
			}
			pred := risk.Score(profile)

			Convey("Then it rounds half up", func() {
				// 42 + 1/4*10 = 44.5
				So(pred.Risk, ShouldEqual, 45)
				So(len(pred.Factors), ShouldEqual, 4+5)
			})
		})

		Convey("When a factor ties with a base component", func() {
			profile.Age = 40
			profile = withFactor(profile, "Sleep Quality", 5)
			profile = withFactor(profile, "Overtraining", 5)
			pred := risk.Score(profile)

			Convey("Then risk factors enumerated first keep precedence", func() {
				names := factorNames(pred)
				So(names[2:5], ShouldResemble, []string{"Overtraining", "Sleep Quality", risk.FactorAge})
			})
		})
	})
}

func TestScore_Bounds(t *testing.T) {
	Convey("Given profiles without aggravating factors", t, func() {
		Convey("When the athlete is 30 or younger", func() {
			pred := risk.Score(model.AthleteProfile{Age: 22})

			Convey("Then the age band is the only contribution", func() {
				So(pred.Risk, ShouldEqual, 5)
				So(pred.Level, ShouldEqual, risk.LevelLow)
				So(len(pred.Factors), ShouldEqual, 5)
			})
		})

		Convey("When the athlete is older than 30", func() {
			So(risk.Score(model.AthleteProfile{Age: 45}).Risk, ShouldEqual, 10)
		})
	})

	Convey("Given counts far beyond the accepted range", t, func() {
		p := risk.NewProfile()
		p.PreviousInjuries = math.MaxInt / 2
		p.CompetitionsPerYear = math.MaxInt
		pred := risk.Score(p)

		Convey("Then the counts saturate instead of wrapping", func() {
			So(pred.Risk, ShouldEqual, 100)
			So(pred.Level, ShouldEqual, risk.LevelHigh)
			for _, f := range pred.Factors {
				So(f.Contribution, ShouldBeGreaterThanOrEqualTo, 0)
			}
			So(pred.Factors[0].Factor, ShouldEqual, risk.FactorPreviousInjuries)
			So(pred.Factors[0].Contribution, ShouldEqual, 10000)
		})
	})

	Convey("Given a sweep over the input domain", t, func() {
		Convey("Then risk always stays between the age band and 100", func() {
			for age := 0; age <= 60; age += 15 {
				for injuries := 0; injuries <= 12; injuries += 3 {
					for intensity := 0; intensity <= 10; intensity += 5 {
						p := risk.NewProfile()
						p.Age = age
						p.PreviousInjuries = injuries
						p = withFactor(p, "Stress Levels", intensity)
						pred := risk.Score(p)
						So(pred.Risk, ShouldBeGreaterThanOrEqualTo, 5)
						So(pred.Risk, ShouldBeLessThanOrEqualTo, 100)
					}
				}
			}
		})
	})
}

func TestScore_Deterministic(t *testing.T) {
	Convey("Given the same profile scored twice", t, func() {
		p := withFactor(risk.NewProfile(), "Poor Technique", 7)
		first := risk.Score(p)
		second := risk.Score(p)

		Convey("Then predictions are identical", func() {
			So(second, ShouldResemble, first)
		})

		Convey("And the input is not mutated", func() {
			So(p.RiskFactors[1], ShouldResemble, model.RiskFactor{Name: "Poor Technique", Intensity: 7})
		})
	})
}

func TestLevel(t *testing.T) {
	cases := map[int]string{
		0:   risk.LevelLow,
		29:  risk.LevelLow,
		30:  risk.LevelModerate,
		59:  risk.LevelModerate,
		60:  risk.LevelHigh,
		100: risk.LevelHigh,
	}
	for in, want := range cases {
		if got := risk.Level(in); got != want {
			t.Errorf("Level(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	Convey("Given profile validation", t, func() {
		Convey("When the profile is the default", func() {
			So(risk.Validate(risk.NewProfile()), ShouldBeNil)
		})

		Convey("When the profile omits some known factors", func() {
			p := risk.NewProfile()
			p.RiskFactors = p.RiskFactors[:2]
			So(risk.Validate(p), ShouldBeNil)
		})

		Convey("When fields are invalid", func() {
			bad := []func(*model.AthleteProfile){
				func(p *model.AthleteProfile) { p.Age = -1 },
				func(p *model.AthleteProfile) { p.Weight = -0.1 },
				func(p *model.AthleteProfile) { p.Height = math.NaN() },
				func(p *model.AthleteProfile) { p.TrainingHoursPerWeek = math.Inf(1) },
				func(p *model.AthleteProfile) { p.PreviousInjuries = -2 },
				func(p *model.AthleteProfile) { p.CompetitionsPerYear = -3 },
				func(p *model.AthleteProfile) { p.PreviousInjuries = 1001 },
				func(p *model.AthleteProfile) { p.PreviousInjuries = math.MaxInt / 2 },
				func(p *model.AthleteProfile) { p.CompetitionsPerYear = math.MaxInt },
				func(p *model.AthleteProfile) { p.RiskFactors[0].Intensity = 11 },
				func(p *model.AthleteProfile) { p.RiskFactors[0].Intensity = -1 },
				func(p *model.AthleteProfile) { p.RiskFactors[0].Name = "Bad Luck" },
				func(p *model.AthleteProfile) { p.RiskFactors[1].Name = p.RiskFactors[0].Name },
			}

			Convey("Then each is rejected as an invalid profile", func() {
				for _, mutate := range bad {
					p := risk.NewProfile()
					mutate(&p)
					err := risk.Validate(p)
					So(err, ShouldNotBeNil)
					So(errors.Is(err, risk.ErrInvalidProfile), ShouldBeTrue)
				}
			})
		})
	})
}
