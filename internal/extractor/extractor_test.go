package extractor_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsummary/internal/domain"
	"docsummary/internal/extractor"
	"docsummary/internal/port"
)

// buildPDF writes a minimal PDF with one page per entry of pageTexts. An empty
// entry produces a page without any text operators.
func buildPDF(pageTexts ...string) []byte {
	var objects []string
	n := len(pageTexts)

	// 1: catalog, 2: pages, 3: font, then page/content pairs.
	kids := ""
	for i := 0; i < n; i++ {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, n),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pageTexts {
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 24 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtractor_PDF_Success(t *testing.T) {
	e := extractor.New()

	text, err := e.Extract(context.Background(), port.ExtractInput{
		FileName: "report.pdf",
		Data:     buildPDF("Hello world", "", "Second page"),
	})

	require.NoError(t, err)
	assert.Contains(t, text, "Hello world")
	assert.Contains(t, text, "Second page")
}

func TestExtractor_PDF_NoText(t *testing.T) {
	e := extractor.New()

	_, err := e.Extract(context.Background(), port.ExtractInput{
		FileName: "scan.pdf",
		Data:     buildPDF("", ""),
	})

	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
}

func TestExtractor_PDF_Corrupt(t *testing.T) {
	e := extractor.New()

	_, err := e.Extract(context.Background(), port.ExtractInput{
		FileName: "broken.pdf",
		Data:     []byte("%PDF-1.4\nthis is not really a pdf"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestPDFExtractor_PageCount(t *testing.T) {
	n, err := extractor.NewPDFExtractor().PageCount(buildPDF("a", "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestExtractor_PlainText(t *testing.T) {
	e := extractor.New()

	text, err := e.Extract(context.Background(), port.ExtractInput{
		FileName: "notes.txt",
		Data:     []byte("Hello world"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
}

func TestExtractor_BlankText(t *testing.T) {
	_, err := extractor.New().Extract(context.Background(), port.ExtractInput{
		FileName: "empty.md",
		Data:     []byte("   \n\t "),
	})
	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
}

func TestExtractor_EmptyUpload(t *testing.T) {
	_, err := extractor.New().Extract(context.Background(), port.ExtractInput{FileName: "a.pdf"})
	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
}

func TestDetectKind(t *testing.T) {
	pdfBytes := buildPDF("x")
	pngBytes := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

	tests := []struct {
		name     string
		fileName string
		data     []byte
		want     domain.DocumentKind
		wantErr  error
	}{
		{"pdf", "a.pdf", pdfBytes, domain.DocumentPDF, nil},
		{"pdf uppercase ext", "A.PDF", pdfBytes, domain.DocumentPDF, nil},
		{"pdf no ext", "upload", pdfBytes, domain.DocumentPDF, nil},
		{"text", "a.txt", []byte("hello"), domain.DocumentText, nil},
		{"markdown", "a.md", []byte("# title"), domain.DocumentText, nil},
		{"text named pdf", "a.pdf", []byte("hello"), "", domain.ErrUnsupportedFileType},
		{"png", "a.png", pngBytes, "", domain.ErrUnsupportedFileType},
		{"pdf named docx", "a.docx", pdfBytes, "", domain.ErrUnsupportedFileType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractor.DetectKind(tt.fileName, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
