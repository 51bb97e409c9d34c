package pipeline

import (
	"context"
	"fmt"

	"github.com/spigell/resume-screener/internal/candidates"
	"github.com/spigell/resume-screener/internal/export"
	"github.com/spigell/resume-screener/internal/storage"
)

// Export writes one of the session's tables to folder in store and returns
// the written reference. kind is one of the export.Kind* constants except
// export.KindQuestions.
func (p *Pipeline) Export(ctx context.Context, store storage.Store, folder, kind string, s *Session) (string, error) {
	var rows [][]string
	switch kind {
	case export.KindCandidates:
		rows = export.CandidateRows(s.Records)
	case export.KindQualified:
		var decisions []candidates.Decision
		if s.Report != nil {
			decisions = s.Report.Decisions
		}
		rows = export.QualifiedRows(s.Qualified, decisions)
	case export.KindRejected:
		rows = export.RejectedRows(s.Records, s.Report.Rejected())
	case export.KindRanking:
		rows = export.RankingRows(s.Results)
	default:
		return "", fmt.Errorf("unknown export kind %q", kind)
	}

	if len(rows) < 2 {
		return "", fmt.Errorf("%s: %w", kind, ErrNoCandidates)
	}
	return store.UploadCSV(ctx, folder, export.FileName(kind, p.now()), rows)
}
