package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/pipeline"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate interview questions for a single resume",
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindScreeningFlags(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		a := setup(ctx, cmd)

		jdText, err := a.jobDescription(ctx, cmd)
		if err != nil {
			a.logger.Fatal("reading job description", zap.Error(err), zap.String("hint", "use --jd-file or --jd-template"))
		}

		resume, _ := cmd.Flags().GetString("resume")
		if resume == "" {
			a.logger.Fatal("resume file is required", zap.Error(errors.New("--resume is not set")))
		}
		data, err := os.ReadFile(resume)
		if err != nil {
			a.logger.Fatal("reading resume", zap.Error(err))
		}

		session, err := a.pipeline.ParseBatch(ctx, []pipeline.Upload{{Name: resume, Data: data}}, pipeline.ParseOptions{
			MaskPII: a.config.Screening.MaskPII,
		})
		if err != nil {
			a.logger.Fatal("parsing resume", zap.Error(err))
		}
		if len(session.Records) == 0 {
			a.logger.Fatal("parsing resume", zap.Error(session.Failures[0]))
		}
		session.JDText = jdText

		rec := session.Records[0]
		questions, err := a.pipeline.Questions(ctx, session, rec.ID)
		if err != nil {
			a.logger.Warn("interview questions are not available", zap.Error(err))
		}
		printQuestions(a.out, rec.DisplayName(), questions)
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)

	questionsCmd.Flags().String("resume", "", "resume file (.txt, .md, .pdf, .docx, .html)")
	questionsCmd.Flags().String("jd-file", "", "job description file")
	questionsCmd.Flags().String("jd-template", "", "built-in job description name")
	questionsCmd.Flags().Bool("mask-pii", true, "mask emails and phone numbers before sending the resume to the LLM")
}
