// Package summary produces narrative summaries and key moments for fight footage.
package summary

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/okian/fightlab/internal/domain/model"
	"github.com/okian/fightlab/pkg/logger"
)

// DefaultDelay is how long a summarization takes.
const DefaultDelay = 4 * time.Second

// Summarizer is a stand-in video summarization backend.
type Summarizer struct {
	clock  clockwork.Clock
	delay  time.Duration
	logger logger.Logger
}

// NewSummarizer creates a Summarizer.
func NewSummarizer(opts ...Option) *Summarizer {
	s := &Summarizer{
		clock: clockwork.NewRealClock(),
		delay: DefaultDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("summary")
	}
	return s
}

// Process summarizes file. It returns early with a wrapped ctx error when ctx is done.
func (s *Summarizer) Process(ctx context.Context, file model.SubmissionFile) (model.SummaryResult, error) {
	s.logger.Debug(ctx, "summarizing", logger.String("file", file.Name), logger.Duration("delay", s.delay))

	select {
	case <-ctx.Done():
		return model.SummaryResult{}, fmt.Errorf("summarize %s: %w", file.Name, ctx.Err())
	case <-s.clock.After(s.delay):
	}
	return Canned(), nil
}

// Canned returns the fixed summary.
func Canned() model.SummaryResult {
	return model.SummaryResult{
		Text: "In this match, Fighter A displayed excellent defensive techniques against Fighter B's aggressive style. " +
			"The first round started with a cautious approach from both fighters, with Fighter A establishing control " +
			"through effective jabs and distance management. Fighter B initiated several takedown attempts in the second " +
			"round, but Fighter A showcased superior takedown defense. The final round saw Fighter A landing a significant " +
			"right hook at 3:42, stunning Fighter B momentarily. Overall, Fighter A won by unanimous decision with " +
			"technical striking being the deciding factor.",
		KeyMoments: []model.KeyMoment{
			{Timestamp: "00:45", Description: "First significant exchange"},
			{Timestamp: "02:18", Description: "Fighter B attempts takedown"},
			{Timestamp: "03:42", Description: "Powerful right hook by Fighter A", Highlight: true},
			{Timestamp: "04:30", Description: "Clinch work against the fence"},
			{Timestamp: "08:12", Description: "Submission attempt by Fighter B", Highlight: true},
		},
		Tags:     []string{"MMA", "Striking", "Defensive Techniques", "Takedown Defense", "Decision Win"},
		Duration: "15:24",
		Statistics: map[string]int{
			"strikes":            78,
			"takedowns":          2,
			"submissions":        1,
			"significantStrikes": 32,
		},
	}
}

// ParseTimestamp converts an "MM:SS" offset into a duration.
func ParseTimestamp(ts string) (time.Duration, error) {
	mm, ss, ok := strings.Cut(ts, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, ts)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("%w: minutes in %q", ErrBadTimestamp, ts)
	}
	s, err := strconv.Atoi(ss)
	if err != nil || s < 0 || s > 59 || len(ss) != 2 {
		return 0, fmt.Errorf("%w: seconds in %q", ErrBadTimestamp, ts)
	}
	return time.Duration(m)*time.Minute + time.Duration(s)*time.Second, nil
}

// FormatTimestamp renders d as "MM:SS", truncating to whole seconds.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
