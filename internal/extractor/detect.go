package extractor

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"docsummary/internal/domain"
)

// DetectKind validates the upload by file extension and magic bytes and returns
// its document kind. A file without an extension is classified by content alone.
func DetectKind(fileName string, data []byte) (domain.DocumentKind, error) {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	sniffed := http.DetectContentType(head)
	if mediaType, _, err := mime.ParseMediaType(sniffed); err == nil {
		sniffed = mediaType
	}

	contentKind, ok := domain.AllowedContentTypes[sniffed]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "" {
		return contentKind, nil
	}
	extKind, ok := domain.AllowedExtensions[ext]
	if !ok || extKind != contentKind {
		return "", domain.ErrUnsupportedFileType
	}
	return contentKind, nil
}
