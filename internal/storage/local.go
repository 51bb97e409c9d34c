package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// Local stores files under a root directory.
type Local struct {
	root   string
	logger *zap.Logger
}

func NewLocal(root string, l *zap.Logger) *Local {
	if l == nil {
		l = zap.NewNop()
	}
	return &Local{root: root, logger: l}
}

func (s *Local) path(folder string) string {
	if filepath.IsAbs(folder) || s.root == "" {
		return folder
	}
	return filepath.Join(s.root, folder)
}

// List returns the regular files directly inside folder sorted by name.
func (s *Local) List(ctx context.Context, folder string) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := s.path(folder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		files = append(files, File{
			Name:     entry.Name(),
			Ref:      filepath.Join(dir, entry.Name()),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	s.logger.Debug("listed local folder", zap.String("folder", dir), zap.Int("files", len(files)))
	return files, nil
}

func (s *Local) Download(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", ref, err)
	}
	return data, nil
}

func (s *Local) UploadCSV(ctx context.Context, folder, name string, rows [][]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := encodeCSV(rows)
	if err != nil {
		return "", err
	}

	dir := s.path(folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}

	s.logger.Info("csv exported", zap.String("path", target), zap.Int("rows", len(rows)))
	return target, nil
}
