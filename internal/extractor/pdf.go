package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"

	"docsummary/internal/domain"
)

func init() {
	// pdfcpu must not create or read a config dir in the user's home.
	model.ConfigPath = "disable"
}

// PDFExtractor extracts plain text from PDF documents page by page.
type PDFExtractor struct {
	conf *model.Configuration
}

// NewPDFExtractor creates a PDFExtractor with relaxed structure validation.
func NewPDFExtractor() *PDFExtractor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFExtractor{conf: conf}
}

// PageCount returns the number of pages after a relaxed structure check.
func (e *PDFExtractor) PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), e.conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}
	return n, nil
}

// ExtractText joins the text of every page that has any, separated by newlines.
func (e *PDFExtractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	pages, err := e.PageCount(data)
	if err != nil {
		return "", err
	}
	if pages == 0 {
		return "", domain.ErrNoExtractableText
	}

	// The text reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: pdf text reader panic: %v", domain.ErrInvalidDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}

	texts := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, perr := page.GetPlainText(nil)
		if perr != nil {
			log.Debug().Err(perr).Int("page", i).Msg("extractor.PDFExtractor: skipping page")
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		texts = append(texts, pageText)
	}

	joined := strings.Join(texts, "\n")
	if strings.TrimSpace(joined) == "" {
		return "", domain.ErrNoExtractableText
	}

	log.Debug().Int("pages", pages).Int("pages_with_text", len(texts)).Int("chars", len(joined)).
		Msg("extractor.PDFExtractor: extracted text")
	return joined, nil
}
