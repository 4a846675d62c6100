package port

import "context"

// ExtractInput carries an uploaded document to a TextExtractor.
type ExtractInput struct {
	FileName string
	Data     []byte
}

// TextExtractor converts raw document bytes to plain text.
// It returns domain.ErrNoExtractableText when the document holds no text.
type TextExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (string, error)
}
