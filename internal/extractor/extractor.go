// Package extractor turns uploaded document bytes into plain text.
package extractor

import (
	"context"
	"strings"
	"unicode/utf8"

	"docsummary/internal/domain"
	"docsummary/internal/port"
)

// Extractor implements port.TextExtractor for PDF and plain-text uploads.
type Extractor struct {
	pdf *PDFExtractor
}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{pdf: NewPDFExtractor()}
}

var _ port.TextExtractor = (*Extractor)(nil)

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (string, error) {
	if len(input.Data) == 0 {
		return "", domain.ErrNoExtractableText
	}

	kind, err := DetectKind(input.FileName, input.Data)
	if err != nil {
		return "", err
	}

	switch kind {
	case domain.DocumentPDF:
		return e.pdf.ExtractText(ctx, input.Data)
	default:
		return extractPlainText(input.Data)
	}
}

func extractPlainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", domain.ErrUnsupportedFileType
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrNoExtractableText
	}
	return text, nil
}
