package pipeline

import (
	"context"
	"fmt"

	"github.com/spigell/resume-screener/internal/storage"
	"github.com/spigell/resume-screener/internal/textract"
	"go.uber.org/zap"
)

// LoadUploads downloads every resume in folder. Files of unsupported types are
// reported as item errors and skipped.
func (p *Pipeline) LoadUploads(ctx context.Context, store storage.Store, folder string) ([]Upload, []ItemError, error) {
	files, err := store.List(ctx, folder)
	if err != nil {
		return nil, nil, err
	}

	uploads := make([]Upload, 0, len(files))
	var skipped []ItemError
	for _, f := range files {
		if !textract.Supported(f.Name) {
			skipped = append(skipped, ItemError{File: f.Name, Err: textract.ErrUnsupported})
			continue
		}

		data, err := store.Download(ctx, f.Ref)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			skipped = append(skipped, ItemError{File: f.Name, Err: fmt.Errorf("download: %w", err)})
			continue
		}
		uploads = append(uploads, Upload{Name: f.Name, Data: data, SubmittedAt: f.Modified})
	}

	p.logger.Info("resumes loaded", zap.String("folder", folder), zap.Int("files", len(uploads)), zap.Int("skipped", len(skipped)))
	return uploads, skipped, nil
}
