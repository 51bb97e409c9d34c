package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/export"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse resumes into candidate records and export them to CSV",
	PreRun: func(cmd *cobra.Command, _ []string) {
		bindScreeningFlags(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := context.Background()
		a := setup(ctx, cmd)

		session, err := a.parseResumes(ctx)
		if err != nil {
			a.logger.Fatal("parsing resumes", zap.Error(err))
		}

		if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
			printAnalytics(a.out, session.Analytics())
			return
		}

		ref, err := a.pipeline.Export(ctx, a.store, a.config.Storage.ExportsFolder, export.KindCandidates, session)
		if err != nil {
			a.logger.Fatal("exporting candidates", zap.Error(err))
		}
		fmt.Fprintf(a.out, "Exported %s to %s\n", export.KindCandidates, ref)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("resumes", "r", "", "folder with resumes in the configured storage (default from config)")
	parseCmd.Flags().Bool("mask-pii", true, "mask emails and phone numbers before sending resumes to the LLM")
	parseCmd.Flags().Int("workers", 0, "how many resumes to parse concurrently (default from config)")
	parseCmd.Flags().Bool("dry-run", false, "print pool analytics instead of exporting")
}
