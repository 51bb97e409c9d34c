// Package pipeline wires the screening components into a session: parse a
// batch of resumes, analyse the job description, pre-screen, rank and
// generate interview questions.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spigell/resume-screener/internal/candidates"
	"github.com/spigell/resume-screener/internal/filtering"
	"github.com/spigell/resume-screener/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWorkers bounds concurrent resume parsing.
	DefaultWorkers = 4
	// TopSkills is how many skills Analytics reports.
	TopSkills = 15
)

var (
	// ErrNoJobDescription is returned when ranking or screening runs without a JD.
	ErrNoJobDescription = errors.New("job description is required")
	// ErrNoCandidates is returned when there is nothing to screen or rank.
	ErrNoCandidates = errors.New("no candidates to process")
	// ErrUnknownCandidate is returned for ids not present in the session.
	ErrUnknownCandidate = errors.New("unknown candidate")
)

type TextExtractor interface {
	Extract(ctx context.Context, name string, data []byte) (string, error)
}

type ResumeParser interface {
	Extract(ctx context.Context, text, filename string, maskPII bool, submittedAt time.Time) (*candidates.Record, error)
}

type RequirementsParser interface {
	Extract(ctx context.Context, jdText string) (*candidates.Requirements, error)
}

type Ranker interface {
	Rank(ctx context.Context, qualified []*candidates.Record, jdText string, topN int, texts map[string]string) ([]candidates.MatchResult, error)
}

type QuestionGenerator interface {
	Generate(ctx context.Context, rec *candidates.Record, jdText string) ([]candidates.InterviewQuestion, error)
}

// Deps are the components a Pipeline drives.
type Deps struct {
	Text         TextExtractor
	Resumes      ResumeParser
	Requirements RequirementsParser
	Ranker       Ranker
	Questions    QuestionGenerator
}

type Pipeline struct {
	deps    Deps
	workers int
	logger  *zap.Logger
	now     func() time.Time
}

// New returns a pipeline. Non-positive workers fall back to DefaultWorkers.
func New(deps Deps, workers int, l *zap.Logger) *Pipeline {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pipeline{deps: deps, workers: workers, logger: logger.OrNop(l), now: time.Now}
}

// Upload is one resume file handed to ParseBatch.
type Upload struct {
	Name        string
	Data        []byte
	SubmittedAt time.Time
}

// ItemError records why a single upload was skipped.
type ItemError struct {
	File string
	Err  error
}

func (e ItemError) Error() string { return e.File + ": " + e.Err.Error() }

func (e ItemError) Unwrap() error { return e.Err }

// Progress is called after every processed upload.
type Progress func(done, total int, file string)

// ParseOptions tune ParseBatch.
type ParseOptions struct {
	MaskPII  bool
	Progress Progress
}

// Session holds everything produced for one batch. A new batch always starts
// a new session.
type Session struct {
	Records      []*candidates.Record
	Texts        map[string]string
	Failures     []ItemError
	JDText       string
	Requirements *candidates.Requirements
	Qualified    []*candidates.Record
	Report       *filtering.Report
	Results      []candidates.MatchResult
}

// Record returns the record with the given id.
func (s *Session) Record(id string) (*candidates.Record, bool) {
	for _, r := range s.Records {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Analytics summarises the parsed pool and the latest ranking.
func (s *Session) Analytics() candidates.Analytics {
	return candidates.Analyze(s.Records, s.Results, TopSkills)
}

type parsed struct {
	record *candidates.Record
	text   string
	err    error
}

// ParseBatch extracts text from every upload and parses it into a record.
// Uploads are processed concurrently but records keep upload order. A failing
// upload is recorded in Session.Failures and never aborts the batch; only
// context cancellation does.
func (p *Pipeline) ParseBatch(ctx context.Context, uploads []Upload, opts ParseOptions) (*Session, error) {
	results := make([]parsed, len(uploads))

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, upload := range uploads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = p.parseOne(gctx, upload, opts.MaskPII)

			mu.Lock()
			done++
			current := done
			mu.Unlock()
			if opts.Progress != nil {
				opts.Progress(current, len(uploads), upload.Name)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session := &Session{Texts: make(map[string]string, len(uploads))}
	for i, res := range results {
		if res.err != nil {
			session.Failures = append(session.Failures, ItemError{File: uploads[i].Name, Err: res.err})
			continue
		}
		session.Records = append(session.Records, res.record)
		session.Texts[res.record.ID] = res.text
	}

	p.logger.Info("resumes parsed",
		zap.Int("uploaded", len(uploads)),
		zap.Int("parsed", len(session.Records)),
		zap.Int("failed", len(session.Failures)),
	)

	return session, nil
}

func (p *Pipeline) parseOne(ctx context.Context, upload Upload, maskPII bool) parsed {
	log := p.logger.With(zap.String(logger.FieldFile, upload.Name))

	text, err := p.deps.Text.Extract(ctx, upload.Name, upload.Data)
	if err != nil {
		log.Warn("text extraction failed", zap.Error(err))
		return parsed{err: fmt.Errorf("extract text: %w", err)}
	}

	submitted := upload.SubmittedAt
	if submitted.IsZero() {
		submitted = p.now()
	}

	rec, err := p.deps.Resumes.Extract(ctx, text, upload.Name, maskPII, submitted)
	if err != nil {
		log.Warn("resume parsing failed", zap.Error(err))
		return parsed{err: err}
	}

	log.Debug("resume parsed", zap.String(logger.FieldCandidate, rec.ID), zap.String("name", rec.Name))
	return parsed{record: rec, text: text}
}

// AnalyzeJD extracts requirements from jdText and stores both on the session.
// Earlier screening and ranking results are cleared.
func (p *Pipeline) AnalyzeJD(ctx context.Context, s *Session, jdText string) error {
	if strings.TrimSpace(jdText) == "" {
		return ErrNoJobDescription
	}

	req, err := p.deps.Requirements.Extract(ctx, jdText)
	if err != nil {
		return err
	}

	s.JDText = jdText
	s.Requirements = req
	s.Qualified = nil
	s.Report = nil
	s.Results = nil
	return nil
}

// Screen runs steps over the session's records and keeps the survivors as the
// qualified pool.
func (p *Pipeline) Screen(ctx context.Context, s *Session, cfg *filtering.Config, steps []filtering.Filter) error {
	if s.Requirements == nil {
		return ErrNoJobDescription
	}
	if len(s.Records) == 0 {
		return ErrNoCandidates
	}

	qualified, report, err := filtering.Run(ctx, cfg, filtering.Deps{
		Logger:       p.logger,
		Requirements: s.Requirements,
		Now:          p.now,
	}, steps, s.Records)
	if err != nil {
		return fmt.Errorf("screening: %w", err)
	}

	s.Qualified = qualified
	s.Report = report
	s.Results = nil

	for _, line := range report.Summary {
		p.logger.Info(line)
	}
	return nil
}

// Rank ranks the qualified pool. On failure the session has no results.
func (p *Pipeline) Rank(ctx context.Context, s *Session, topN int) error {
	s.Results = nil
	if strings.TrimSpace(s.JDText) == "" {
		return ErrNoJobDescription
	}
	if len(s.Qualified) == 0 {
		return ErrNoCandidates
	}

	results, err := p.deps.Ranker.Rank(ctx, s.Qualified, s.JDText, topN, s.Texts)
	if err != nil {
		return err
	}
	s.Results = results
	return nil
}

// Questions generates interview questions for the candidate with id.
func (p *Pipeline) Questions(ctx context.Context, s *Session, id string) ([]candidates.InterviewQuestion, error) {
	rec, ok := s.Record(id)
	if !ok {
		return []candidates.InterviewQuestion{}, fmt.Errorf("%w: %s", ErrUnknownCandidate, id)
	}
	return p.deps.Questions.Generate(ctx, rec, s.JDText)
}
