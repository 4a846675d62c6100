package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"docsummary/internal/domain"
	"docsummary/internal/middleware"
)

// MapDomainError translates a pre-stream error to an HTTP status and the
// error envelope sent to the client.
func MapDomainError(err error) (int, domain.ErrorEnvelope) {
	switch {
	case errors.Is(err, domain.ErrNoExtractableText):
		// bad input, not a server fault
		return http.StatusOK, domain.ExtractionErrorEnvelope()
	case errors.Is(err, domain.ErrMissingFile):
		return http.StatusBadRequest, uploadErrorEnvelope("file field is required")
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType, uploadErrorEnvelope("unsupported file type; allowed: pdf, txt, md")
	case errors.Is(err, domain.ErrInvalidRequestBody):
		return http.StatusBadRequest, uploadErrorEnvelope("user_prompt is required in a JSON body")
	case errors.Is(err, domain.ErrInvalidModelName):
		return http.StatusBadRequest, uploadErrorEnvelope("model must be a plain vendor model identifier")
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, uploadErrorEnvelope("file exceeds maximum allowed size")
	default:
		return http.StatusInternalServerError, domain.ProcessingErrorEnvelope(err.Error())
	}
}

func uploadErrorEnvelope(msg string) domain.ErrorEnvelope {
	return domain.ErrorEnvelope{
		Status:  domain.StatusError,
		Stage:   domain.StageExtraction,
		Summary: "",
		Message: msg,
	}
}

// HandleError maps err and sends the matching envelope.
func HandleError(c *gin.Context, err error) {
	status, env := MapDomainError(err)
	evt := log.Warn()
	if status >= http.StatusInternalServerError {
		evt = log.Error()
	}
	evt.Err(err).Str("request_id", middleware.GetRequestID(c)).Int("status", status).Msg("handler: request failed")
	c.JSON(status, env)
}
