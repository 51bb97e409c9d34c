package filtering

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/resume-screener/internal/candidates"
	"go.uber.org/zap"
)

const excludedByFile = "Listed in exclude file"

type excludeFileFilter struct {
	path      string
	decisions []candidates.Decision
}

// NewExcludeFile creates a filter that drops candidates whose email appears
// in the configured exclude file, one address per line. Lines starting with
// '#' are ignored.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, records []*candidates.Record) ([]*candidates.Record, Step, error) {
	initial := len(records)
	f.decisions = nil
	if f.path == "" {
		return records, Step{Initial: initial, Left: initial}, nil
	}

	excluded, err := ReadExcludeFile(f.path)
	if err != nil {
		return nil, Step{}, fmt.Errorf("getting excluded candidates from file: %w", err)
	}

	at := deps.now()
	kept := make([]*candidates.Record, 0, len(records))
	for _, r := range records {
		if email := strings.ToLower(strings.TrimSpace(r.Email)); email != "" && excluded[email] {
			f.decisions = append(f.decisions, rejection(r, excludedByFile, at))
			continue
		}
		kept = append(kept, r)
	}

	if deps.Logger != nil && len(f.decisions) > 0 {
		deps.Logger.Info("excluding candidates based on exclude file",
			zap.String("path", f.path),
			zap.Int("excluded", len(f.decisions)),
			zap.Int("candidates_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *excludeFileFilter) Decisions() []candidates.Decision { return f.decisions }

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

// ReadExcludeFile loads lower-cased email addresses from path. A missing file
// is treated as empty.
func ReadExcludeFile(path string) (map[string]bool, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	out := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out[strings.ToLower(line)] = true
	}
	return out, scanner.Err()
}

// AppendExcludeFile adds emails to the exclude file at path, creating it if needed.
func AppendExcludeFile(path string, emails []string) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, email := range emails {
		if email = strings.TrimSpace(email); email == "" {
			continue
		}
		if _, err := fmt.Fprintln(w, strings.ToLower(email)); err != nil {
			return err
		}
	}
	return w.Flush()
}
