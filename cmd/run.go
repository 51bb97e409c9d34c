package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/export"
	"github.com/spigell/resume-screener/internal/extraction"
	"github.com/spigell/resume-screener/internal/filtering"
	"github.com/spigell/resume-screener/internal/interview"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/pipeline"
	"github.com/spigell/resume-screener/internal/ranking"
	"github.com/spigell/resume-screener/internal/storage"
	"github.com/spigell/resume-screener/internal/textract"
)

const (
	PromptQuestions       = "Generate interview questions"
	PromptExport          = "Export results to CSV"
	PromptRejected        = "Show rejected candidates"
	PromptAnalytics       = "Show analytics"
	PromptRanking         = "Show ranking again"
	PromptAppendToExclude = "Append rejected candidates to exclude file"
	PromptExit            = "Exit"
	PromptBack            = "back"
	skipPreScreenFlag     = "skip-pre-screen"
	autoApproveFlag       = "yes"
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Parse resumes, screen and rank them against a job description",
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindScreeningFlags(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	addScreeningFlags(runCmd)
	runCmd.Flags().IntP("top-n", "n", 0, "how many candidates to rank: 1, 2, 3, 5, 10, 15 or 20 (default from config, 5)")
	runCmd.Flags().String("from", "", "only screen resumes submitted on or after this date (YYYY-MM-DD)")
	runCmd.Flags().String("to", "", "only screen resumes submitted on or before this date (YYYY-MM-DD)")
	runCmd.Flags().StringP("exclude-file", "e", "", "file with candidate emails to exclude, one per line")
	runCmd.Flags().Bool(skipPreScreenFlag, false, "rank every parsed candidate without rule-based pre-screening")
	runCmd.Flags().BoolP(autoApproveFlag, "y", false, "do not ask for follow-up actions, export everything and exit")
}

// addScreeningFlags registers flags shared by commands that parse resumes
// and read a job description.
func addScreeningFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("resumes", "r", "", "folder with resumes in the configured storage (default from config)")
	cmd.Flags().String("jd-file", "", "job description file (.txt, .md, .pdf, .docx, .html)")
	cmd.Flags().String("jd-template", "", "built-in job description: "+strings.Join(extraction.TemplateNames(), ", "))
	cmd.Flags().Bool("mask-pii", true, "mask emails and phone numbers before sending resumes to the LLM")
	cmd.Flags().Int("workers", 0, "how many resumes to parse concurrently (default from config)")
}

// bindScreeningFlags binds the flags of the command being executed. Binding
// happens here rather than in init because several commands share flag names.
func bindScreeningFlags(cmd *cobra.Command) {
	bindings := map[string]string{
		"storage.resumes-folder": "resumes",
		"screening.mask-pii":     "mask-pii",
		"screening.workers":      "workers",
		"screening.top-n":        "top-n",
		"screening.from":         "from",
		"screening.to":           "to",
		"exclude-file":           "exclude-file",
	}
	for key, name := range bindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			log.Fatalf("binding %s flag: %v", name, err)
		}
	}
}

// application holds what every command needs once the config is loaded.
type application struct {
	config   *Config
	logger   *zap.Logger
	store    storage.Store
	text     *textract.Extractor
	pipeline *pipeline.Pipeline
	out      io.Writer
}

func setup(ctx context.Context, cmd *cobra.Command) *application {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the "+app, zap.String("version", version), zap.String("ai_provider", config.AI.Provider))

	llm, err := newCompleter(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building llm client", zap.Error(err))
	}

	store, err := newStore(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("building storage", zap.Error(err), zap.String("backend", config.Storage.Backend))
	}

	text := textract.New(logger)
	p := pipeline.New(pipeline.Deps{
		Text:         text,
		Resumes:      extraction.NewResumeExtractor(llm, logger),
		Requirements: extraction.NewJDExtractor(llm, logger),
		Ranker:       ranking.New(llm, logger),
		Questions:    interview.New(llm, logger),
	}, config.Screening.Workers, logger)

	return &application{config: config, logger: logger, store: store, text: text, pipeline: p, out: cmd.OutOrStdout()}
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()
	a := setup(ctx, cmd)
	logger := a.logger

	jdText, err := a.jobDescription(ctx, cmd)
	if err != nil {
		logger.Fatal("reading job description", zap.Error(err), zap.String("hint", "use --jd-file or --jd-template"))
	}

	session, err := a.parseResumes(ctx)
	if err != nil {
		logger.Fatal("parsing resumes", zap.Error(err))
	}
	if len(session.Records) == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes could be parsed"))
		return
	}

	if err := a.pipeline.AnalyzeJD(ctx, session, jdText); err != nil {
		logger.Fatal("analysing job description", zap.Error(err))
	}
	printRequirements(a.out, session.Requirements)

	from, to, err := a.config.Screening.dateRange()
	if err != nil {
		logger.Fatal("parsing screening dates", zap.Error(err))
	}

	steps := []filtering.Filter{
		filtering.NewDateRange(),
		filtering.NewExcludeFile(),
		filtering.NewPreScreen(),
	}
	if skip, _ := cmd.Flags().GetBool(skipPreScreenFlag); skip {
		filtering.DisableByName(steps, "pre_screen", "disabled with --"+skipPreScreenFlag)
	}

	cfg := &filtering.Config{From: from, To: to, ExcludeFile: a.config.ExcludeFile}
	if err := a.pipeline.Screen(ctx, session, cfg, steps); err != nil {
		logger.Fatal("screening candidates", zap.Error(err))
	}
	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter status", zap.String("name", status.Name), zap.Bool("enabled", status.Enabled), zap.Any("details", status.Details))
	}

	fmt.Fprintln(a.out, "\nPre-screening:")
	printSummary(a.out, session.Report.Summary)

	if len(session.Qualified) == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates passed pre-screening"))
		printRejected(a.out, session.Report.Rejected())
		return
	}

	if err := a.pipeline.Rank(ctx, session, a.config.Screening.TopN); err != nil {
		logger.Error("matching failed", zap.Error(err))
	} else {
		printRanking(a.out, session.Results)
	}

	if yes, _ := cmd.Flags().GetBool(autoApproveFlag); yes {
		if err := a.exportAll(ctx, session); err != nil {
			logger.Fatal("exporting results", zap.Error(err))
		}
		return
	}

	for {
		prompt := promptui.Select{
			Label: "What next?",
			Items: []string{PromptQuestions, PromptExport, PromptRejected, PromptAnalytics, PromptRanking, PromptAppendToExclude, PromptExit},
		}
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := a.handleAction(ctx, action, session); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Error("action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func (a *application) handleAction(ctx context.Context, action string, session *pipeline.Session) error {
	switch action {
	case PromptQuestions:
		return a.questions(ctx, session)
	case PromptExport:
		return a.exportAll(ctx, session)
	case PromptRejected:
		printRejected(a.out, session.Report.Rejected())
		return nil
	case PromptAnalytics:
		printAnalytics(a.out, session.Analytics())
		return nil
	case PromptRanking:
		printRanking(a.out, session.Results)
		return nil
	case PromptAppendToExclude:
		return a.appendRejected(session)
	case PromptExit:
		a.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (a *application) jobDescription(ctx context.Context, cmd *cobra.Command) (string, error) {
	file, _ := cmd.Flags().GetString("jd-file")
	template, _ := cmd.Flags().GetString("jd-template")

	switch {
	case file != "" && template != "":
		return "", errors.New("--jd-file and --jd-template are mutually exclusive")
	case template != "":
		return extraction.Template(template)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return a.text.Extract(ctx, file, data)
	default:
		return "", pipeline.ErrNoJobDescription
	}
}

func (a *application) parseResumes(ctx context.Context) (*pipeline.Session, error) {
	folder := a.config.Storage.ResumesFolder
	uploads, skipped, err := a.pipeline.LoadUploads(ctx, a.store, folder)
	if err != nil {
		return nil, err
	}

	session, err := a.pipeline.ParseBatch(ctx, uploads, pipeline.ParseOptions{
		MaskPII: a.config.Screening.MaskPII,
		Progress: func(done, total int, file string) {
			a.logger.Info("processing resumes", zap.Int("done", done), zap.Int("total", total), zap.String("file", file))
		},
	})
	if err != nil {
		return nil, err
	}

	session.Failures = append(skipped, session.Failures...)
	printFailures(a.out, session.Failures)
	fmt.Fprintf(a.out, "Parsed %d resume(s) from %s\n", len(session.Records), folder)
	return session, nil
}

func (a *application) questions(ctx context.Context, session *pipeline.Session) error {
	if len(session.Results) == 0 {
		return errors.New("no ranked candidates")
	}

	items := make([]string, 0, len(session.Results)+1)
	for _, r := range session.Results {
		items = append(items, fmt.Sprintf("%d. %s", r.Rank, r.Name))
	}

	prompt := promptui.Select{Label: "Choose a candidate and press ENTER", Items: append(items, PromptBack)}
	idx, selected, err := prompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	chosen := session.Results[idx]
	questions, err := a.pipeline.Questions(ctx, session, chosen.CandidateID)
	if err != nil {
		a.logger.Warn("interview questions are not available", zap.Error(err))
	}
	printQuestions(a.out, chosen.Name, questions)

	if len(questions) == 0 {
		return nil
	}
	ref, err := a.store.UploadCSV(ctx, a.config.Storage.ExportsFolder,
		export.FileName(export.KindQuestions, time.Now()), export.QuestionRows(chosen.Name, questions))
	if err != nil {
		return err
	}
	a.logger.Info("interview questions exported", zap.String("ref", ref))
	return nil
}

func (a *application) exportAll(ctx context.Context, session *pipeline.Session) error {
	kinds := []string{export.KindCandidates, export.KindQualified, export.KindRejected, export.KindRanking}
	for _, kind := range kinds {
		ref, err := a.pipeline.Export(ctx, a.store, a.config.Storage.ExportsFolder, kind, session)
		if errors.Is(err, pipeline.ErrNoCandidates) {
			a.logger.Debug("nothing to export", zap.String("kind", kind))
			continue
		}
		if err != nil {
			return fmt.Errorf("export %s: %w", kind, err)
		}
		fmt.Fprintf(a.out, "Exported %s to %s\n", kind, ref)
	}
	return nil
}

func (a *application) appendRejected(session *pipeline.Session) error {
	excludeFile := a.config.ExcludeFile
	if excludeFile == "" {
		return errors.New("exclude file is not configured, use --exclude-file or exclude-file in the config")
	}

	var emails []string
	for _, d := range session.Report.Rejected() {
		if rec, ok := session.Record(d.CandidateID); ok && rec.Email != "" {
			emails = append(emails, rec.Email)
		}
	}
	if len(emails) == 0 {
		a.logger.Info("no rejected candidates with an email to exclude")
		return nil
	}

	if err := filtering.AppendExcludeFile(excludeFile, emails); err != nil {
		return err
	}
	a.logger.Info("appended to exclude file", zap.String("filename", excludeFile), zap.Int("count", len(emails)))
	return nil
}
