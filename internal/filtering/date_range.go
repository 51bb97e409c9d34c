package filtering

import (
	"context"
	"errors"

	"github.com/spigell/resume-screener/internal/candidates"
	"go.uber.org/zap"
)

const outsideDateRange = "Outside selected date range"

type dateRangeFilter struct {
	cfg       *Config
	decisions []candidates.Decision
}

// NewDateRange creates a filter that drops records submitted outside the
// configured window. Records without a submission date are kept.
func NewDateRange() Filter {
	return &dateRangeFilter{}
}

func (f *dateRangeFilter) Name() string { return "date_range" }

func (f *dateRangeFilter) Disable(string) {}

func (f *dateRangeFilter) IsEnabled() bool { return true }

func (f *dateRangeFilter) Validate(cfg *Config) error {
	f.cfg = cfg
	if cfg != nil && !cfg.From.IsZero() && !cfg.To.IsZero() && cfg.To.Before(cfg.From) {
		return errors.New("date range end is before its start")
	}
	return nil
}

func (f *dateRangeFilter) Apply(_ context.Context, deps Deps, records []*candidates.Record) ([]*candidates.Record, Step, error) {
	initial := len(records)
	f.decisions = nil
	if f.cfg == nil || (f.cfg.From.IsZero() && f.cfg.To.IsZero()) {
		return records, Step{Initial: initial, Left: initial}, nil
	}

	at := deps.now()
	kept := make([]*candidates.Record, 0, len(records))
	for _, r := range records {
		if f.inRange(r) {
			kept = append(kept, r)
			continue
		}
		f.decisions = append(f.decisions, rejection(r, outsideDateRange, at))
	}

	if deps.Logger != nil && len(f.decisions) > 0 {
		deps.Logger.Info("excluding candidates outside the date range",
			zap.Time("from", f.cfg.From),
			zap.Time("to", f.cfg.To),
			zap.Int("candidates_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *dateRangeFilter) inRange(r *candidates.Record) bool {
	if r.SubmissionDate.IsZero() {
		return true
	}
	if !f.cfg.From.IsZero() && r.SubmissionDate.Before(f.cfg.From) {
		return false
	}
	if !f.cfg.To.IsZero() && r.SubmissionDate.After(f.cfg.To) {
		return false
	}
	return true
}

func (f *dateRangeFilter) Decisions() []candidates.Decision { return f.decisions }

func (f *dateRangeFilter) Status() Status {
	details := map[string]string{}
	if f.cfg != nil {
		if !f.cfg.From.IsZero() {
			details["from"] = f.cfg.From.Format("2006-01-02")
		}
		if !f.cfg.To.IsZero() {
			details["to"] = f.cfg.To.Format("2006-01-02")
		}
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
