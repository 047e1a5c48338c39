// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/brsr-extractor/pkg/types"
)

// fakeConverter implements Converter for testing. It returns canned text
// or an error, depending on configuration.
type fakeConverter struct {
	output string
	err    error
}

func (f *fakeConverter) Convert(_ context.Context, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

// fakeRuntime implements container.Runtime without running anything.
type fakeRuntime struct {
	imageErr error
	runErr   error
	output   string
	stdin    string
}

func (f *fakeRuntime) Name() string { return "fake" }
func (f *fakeRuntime) Available() bool { return true }
func (f *fakeRuntime) ImageExists(string) error { return f.imageErr }
func (f *fakeRuntime) Run(_ context.Context, image string, stdin io.Reader, stdout io.Writer) error {
	data, _ := io.ReadAll(stdin)
	f.stdin = string(data)
	if f.runErr != nil {
		return f.runErr
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

// setupPDF creates a temporary file with the given content and returns its path.
func setupPDF(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDocumentName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "reports/Acme Industries.pdf", want: "Acme Industries"},
		{path: "/abs/path/BRSR_2024.v2.pdf", want: "BRSR_2024.v2"},
		{path: "noext", want: "noext"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DocumentName(tt.path), tt.path)
	}
}

func TestAcquire(t *testing.T) {
	tests := []struct {
		name      string
		converter *fakeConverter
		wantErr   bool
	}{
		{
			name:      "successful conversion",
			converter: &fakeConverter{output: "Board of Directors 10 3 30%"},
		},
		{
			name:      "conversion failure",
			converter: &fakeConverter{err: errors.New("file is encrypted")},
			wantErr:   true,
		},
		{
			name:      "blank text",
			converter: &fakeConverter{output: " \n\n "},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Acquire(context.Background(), tt.converter, "in/Acme Ltd.pdf")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Acme Ltd", doc.Name)
			assert.Equal(t, "in/Acme Ltd.pdf", doc.Path)
			assert.Equal(t, tt.converter.output, doc.Text)
		})
	}
}

func TestPDFConverterRejectsNonPDF(t *testing.T) {
	path := setupPDF(t, "broken.pdf", "this is not a pdf")
	_, err := NewPDFConverter(nil).Convert(context.Background(), path)
	assert.Error(t, err)
}

// testdata/governance.pdf declares three pages but only two exist; the
// third resolves to a null page.
func TestPDFConverterExtractsPages(t *testing.T) {
	text, err := NewPDFConverter(nil).Convert(context.Background(), filepath.Join("testdata", "governance.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "\nBoard of Directors 10 3 30.0%\n\nKey Management Personnel 5 1 20.0%\n", text)
}

func TestPDFConverterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPDFConverter(nil).Convert(ctx, filepath.Join("testdata", "governance.pdf"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPDFConverterMissingFile(t *testing.T) {
	_, err := NewPDFConverter(nil).Convert(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	assert.Error(t, err)
}

func TestMarkitdownConverter(t *testing.T) {
	path := setupPDF(t, "acme.pdf", "%PDF-1.7 fake")
	rt := &fakeRuntime{output: strings.Join([]string{
		"## Participation of women",
		"| | Total (A) | No. (B) | % (B/A) |",
		"|---|---:|---:|---:|",
		"| Board of Directors | 10 | 3 | 30% |",
		"| Key Management Personnel | 5 | 1 | 20% |",
	}, "\n")}

	c, err := NewMarkitdownConverter(rt)
	require.NoError(t, err)

	text, err := c.Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 fake", rt.stdin)
	assert.Contains(t, text, "\nBoard of Directors 10 3 30%\n")
	assert.Contains(t, text, "\nKey Management Personnel 5 1 20%")
	assert.NotContains(t, text, "---")
}

func TestMarkitdownConverterErrors(t *testing.T) {
	_, err := NewMarkitdownConverter(&fakeRuntime{imageErr: errors.New("no image")})
	assert.Error(t, err)

	path := setupPDF(t, "acme.pdf", "pdf")

	c, err := NewMarkitdownConverter(&fakeRuntime{runErr: errors.New("container crashed")})
	require.NoError(t, err)
	_, err = c.Convert(context.Background(), path)
	assert.Error(t, err)

	c, err = NewMarkitdownConverter(&fakeRuntime{})
	require.NoError(t, err)
	_, err = c.Convert(context.Background(), path)
	assert.Error(t, err, "empty output")
}

func TestFlattenTables(t *testing.T) {
	in := "Intro line\n| a | b |\n| --- | :-: |\n|  Permanent (D) | 1,200 | 900 |\nTail"
	want := "Intro line\na b\nPermanent (D) 1,200 900\nTail"
	assert.Equal(t, want, flattenTables(in))
}

func TestNewUnsupportedBackend(t *testing.T) {
	_, err := New(types.ConversionConfig{Backend: "grobid"}, nil)
	assert.Error(t, err)

	c, err := New(types.ConversionConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &PDFConverter{}, c)
}
