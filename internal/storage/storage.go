// Package storage lists and fetches resume files and persists CSV exports.
package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"
)

// File is an entry returned by List. Ref is what Download expects.
type File struct {
	Name     string
	Ref      string
	Size     int64
	Modified time.Time
}

// Store is a folder-oriented file backend.
type Store interface {
	List(ctx context.Context, folder string) ([]File, error)
	Download(ctx context.Context, ref string) ([]byte, error)
	// UploadCSV writes rows as CSV and returns a reference to the written file.
	UploadCSV(ctx context.Context, folder, name string, rows [][]string) (string, error)
}

func encodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}
