package filtering

import (
	"context"
	"fmt"
	"time"

	"github.com/spigell/resume-screener/internal/candidates"
	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to candidate records.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, records []*candidates.Record) ([]*candidates.Record, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger       *zap.Logger
	Requirements *candidates.Requirements
	Now          func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	// From and To bound the submission date. Zero values leave that side open.
	From        time.Time
	To          time.Time
	ExcludeFile string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

type decisionCollector interface {
	Decisions() []candidates.Decision
}

type summaryProvider interface {
	Summary() []string
}

// Report is what a filtering run produced besides the surviving records.
type Report struct {
	Steps     map[string]Step
	Decisions []candidates.Decision
	Summary   []string
}

// Rejected returns failed decisions, keeping only the first per candidate.
func (r *Report) Rejected() []candidates.Decision {
	if r == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []candidates.Decision
	for _, d := range r.Decisions {
		if d.Passed || seen[d.CandidateID] {
			continue
		}
		seen[d.CandidateID] = true
		out = append(out, d)
	}
	return out
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially. The input slice is not modified.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, records []*candidates.Record) ([]*candidates.Record, *Report, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	report := &Report{Steps: make(map[string]Step, len(steps))}
	current := append([]*candidates.Record(nil), records...)

	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, deps, current)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		deps.Logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		report.Steps[step.Name()] = info
		if collector, ok := step.(decisionCollector); ok {
			report.Decisions = append(report.Decisions, collector.Decisions()...)
		}
		if summary, ok := step.(summaryProvider); ok {
			report.Summary = append(report.Summary, summary.Summary()...)
		}

		current = next
	}

	return current, report, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

func rejection(r *candidates.Record, reason string, at time.Time) candidates.Decision {
	return candidates.Decision{
		CandidateID: r.ID,
		Name:        r.DisplayName(),
		Reasons:     []string{reason},
		DecidedAt:   at,
	}
}
