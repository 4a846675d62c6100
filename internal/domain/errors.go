package domain

import "errors"

var (
	ErrMissingFile         = errors.New("file field is required")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrNoExtractableText   = errors.New("no extractable text found")
	ErrInvalidDocument     = errors.New("document could not be read")
	ErrInvalidModelChoice  = errors.New("invalid model choice")
	ErrMissingAPIKey       = errors.New("missing api key")
	ErrInvalidModelName    = errors.New("invalid model identifier")
	ErrInvalidRequestBody  = errors.New("invalid request body")
)
