package textract

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	t.Parallel()

	text, err := New(nil).Extract(context.Background(), "Resume.TXT", []byte("Jane   Doe\r\n\r\n\r\n\r\nGo\tengineer  \n"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nGo engineer", text)
}

func TestExtractHTML(t *testing.T) {
	t.Parallel()

	page := `<html><head><style>p{}</style><script>var x = 1;</script></head>
<body><nav>Home | Jobs</nav><main><h1>Senior Go Engineer</h1><p>5+ years with <b>Go</b>.</p><ul><li>Kubernetes</li><li>AWS</li></ul></main>
<footer>Copyright</footer></body></html>`

	text, err := New(nil).Extract(context.Background(), "jd.html", []byte(page))
	require.NoError(t, err)
	assert.Equal(t, []string{"Senior", "Go", "Engineer", "5+", "years", "with", "Go.", "Kubernetes", "AWS"}, strings.Fields(text))
	assert.Contains(t, text, "\n")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "Home")
}

func TestExtractFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		data    []byte
		wantErr error
	}{
		{name: "image", file: "scan.png", data: []byte{0x89, 'P', 'N', 'G'}, wantErr: ErrUnsupported},
		{name: "unknown", file: "resume.xyz", data: []byte("text"), wantErr: ErrUnsupported},
		{name: "blank text", file: "empty.md", data: []byte(" \n\t\n"), wantErr: ErrNoText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(nil).Extract(context.Background(), tt.file, tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractBrokenPDF(t *testing.T) {
	t.Parallel()

	_, err := New(nil).Extract(context.Background(), "cv.pdf", []byte("not a pdf"))
	assert.Error(t, err)
}

func TestExtractCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil).Extract(ctx, "cv.txt", []byte("text"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSupported(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"a.pdf", "b.DOCX", "c.txt", "d.htm", "e.md"} {
		assert.True(t, Supported(name), name)
	}
	for _, name := range []string{"a.png", "b", "c.exe"} {
		assert.False(t, Supported(name), name)
	}
}
