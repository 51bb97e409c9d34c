// Package textract pulls plain text out of uploaded resume and job
// description files.
package textract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

var (
	// ErrUnsupported is returned for file types no extractor handles.
	ErrUnsupported = errors.New("unsupported file type")
	// ErrNoText is returned when a supported file yields no text.
	ErrNoText = errors.New("no text content found")
)

var (
	spaceRun     = regexp.MustCompile(`[ \t\f\v]+`)
	blankLineRun = regexp.MustCompile(`\n{3,}`)
)

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".tiff": true}

// Supported reports whether name has an extension Extract can read.
func Supported(name string) bool {
	switch ext(name) {
	case ".pdf", ".docx", ".doc", ".odt", ".rtf", ".html", ".htm", ".txt", ".md":
		return true
	}
	return false
}

type Extractor struct {
	logger *zap.Logger
}

func New(l *zap.Logger) *Extractor {
	if l == nil {
		l = zap.NewNop()
	}
	return &Extractor{logger: l}
}

// Extract returns the normalised text of data, choosing the reader by the
// extension of name.
func (e *Extractor) Extract(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)

	switch x := ext(name); {
	case x == ".pdf":
		text, err = e.fromPDF(data)
	case x == ".docx" || x == ".doc" || x == ".odt" || x == ".rtf":
		text, err = fromDocument(name, data)
	case x == ".html" || x == ".htm":
		text, err = FromHTML(string(data))
	case x == ".txt" || x == ".md":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%s: file is not valid utf-8", name)
		}
		text = string(data)
	case imageExts[x]:
		return "", fmt.Errorf("%s: %w: images need OCR which is not available", name, ErrUnsupported)
	default:
		return "", fmt.Errorf("%s: %w %q", name, ErrUnsupported, x)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	text = Clean(text)
	if text == "" {
		return "", fmt.Errorf("%s: %w", name, ErrNoText)
	}

	e.logger.Debug("text extracted", zap.String("file", name), zap.Int("length", utf8.RuneCountInString(text)))
	return text, nil
}

func (e *Extractor) fromPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Debug("skipping unreadable pdf page", zap.Int("page", i), zap.Error(err))
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

func fromDocument(name string, data []byte) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), docconv.MimeTypeByExtension(name), true)
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}
	return res.Body, nil
}

// FromHTML returns the visible text of an HTML page, without navigation,
// scripts and styling.
func FromHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, iframe, form").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	body := doc.Find("main").First()
	if body.Length() == 0 {
		body = doc.Find("body")
	}
	return body.Text(), nil
}

// Clean collapses runs of spaces and blank lines and trims every line.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = blankLineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
