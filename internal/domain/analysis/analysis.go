// Package analysis produces technique breakdowns for uploaded fight footage.
//
// No model runs here: the Analyzer waits a fixed amount of clock time and
// returns a canned result, which is enough to drive the submission pipeline.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/okian/fightlab/internal/domain/model"
	"github.com/okian/fightlab/pkg/logger"
)

// DefaultDelay is how long an analysis takes.
const DefaultDelay = 3 * time.Second

// Analyzer is a stand-in video analysis backend.
type Analyzer struct {
	clock  clockwork.Clock
	delay  time.Duration
	logger logger.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		clock: clockwork.NewRealClock(),
		delay: DefaultDelay,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Get().Named("analysis")
	}
	return a
}

// Process analyzes file. It returns early with a wrapped ctx error when ctx is done.
func (a *Analyzer) Process(ctx context.Context, file model.SubmissionFile) (model.AnalysisResult, error) {
	a.logger.Debug(ctx, "analyzing", logger.String("file", file.Name), logger.Duration("delay", a.delay))

	select {
	case <-ctx.Done():
		return model.AnalysisResult{}, fmt.Errorf("analyze %s: %w", file.Name, ctx.Err())
	case <-a.clock.After(a.delay):
	}
	return Canned(), nil
}

// Canned returns the fixed analysis result.
func Canned() model.AnalysisResult {
	return model.AnalysisResult{
		TechniqueScore: 78,
		Speed:          82,
		Power:          75,
		Balance:        68,
		Strengths: []string{
			"Excellent jab technique",
			"Good footwork and mobility",
			"Effective defensive stance",
		},
		Improvements: []string{
			"Balance during counterattacks",
			"Head movement could be improved",
			"More power in left hook",
		},
	}
}
