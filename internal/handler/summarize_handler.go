package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog/log"

	"docsummary/internal/domain"
	"docsummary/internal/middleware"
	"docsummary/internal/service"
)

// SummarizeHandler handles the summarization stream endpoint.
type SummarizeHandler struct {
	summaryService service.SummaryService
	maxUploadBytes int64
}

// NewSummarizeHandler creates a new SummarizeHandler. A positive maxUploadBytes
// bounds how much of the uploaded file is read.
func NewSummarizeHandler(summaryService service.SummaryService, maxUploadBytes int64) *SummarizeHandler {
	return &SummarizeHandler{summaryService: summaryService, maxUploadBytes: maxUploadBytes}
}

// TextSummarizeRequest is the JSON body accepted by POST /summarize in place
// of a multipart upload. The text is summarized as a plain-text document.
type TextSummarizeRequest struct {
	Text        string `json:"user_prompt" binding:"required"`
	Prompt      string `json:"prompt"`
	Model       string `json:"model"`
	ModelChoice string `json:"model_choice"`
}

// textDocumentName names the document built from a JSON body.
const textDocumentName = "input.txt"

// Summarize handles POST /summarize
// @Summary Summarize a document
// @Description Uploads a document (PDF, TXT, MD), or posts raw text as JSON, and streams newline-delimited JSON progress events ending in one terminal event.
// @Tags summarize
// @Accept multipart/form-data,json
// @Produce json
// @Param file formData file false "Document to summarize (multipart)"
// @Param model_choice formData string false "Backend: gemini or claude (default claude)"
// @Param custom_prompt formData string false "Instruction replacing the default one"
// @Param model formData string false "Vendor model identifier overriding the backend default"
// @Param request body TextSummarizeRequest false "Raw text to summarize (JSON)"
// @Success 200 {object} domain.ProgressEvent "NDJSON stream of progress events, or the extraction error envelope"
// @Failure 400 {object} domain.ErrorEnvelope "Missing file, invalid body or invalid model identifier"
// @Failure 413 {object} domain.ErrorEnvelope "File too large"
// @Failure 415 {object} domain.ErrorEnvelope "Unsupported file type"
// @Failure 500 {object} domain.ErrorEnvelope "Processing error"
// @Router /summarize [post]
func (h *SummarizeHandler) Summarize(c *gin.Context) {
	receivedAt := time.Now()

	req, err := h.bindRequest(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	req.ReceivedAt = receivedAt
	if req.ModelChoice == "" {
		req.ModelChoice = domain.DefaultModelChoice
	}

	events, err := h.summaryService.Summarize(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "application/json")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	for event := range events {
		// Encode terminates each object with a newline.
		if err := enc.Encode(event); err != nil {
			log.Debug().Err(err).Str("request_id", middleware.GetRequestID(c)).
				Msg("handler.Summarize: client gone, stopping stream")
			return
		}
		c.Writer.Flush()
	}
}

func (h *SummarizeHandler) bindRequest(c *gin.Context) (*domain.SummarizationRequest, error) {
	if c.ContentType() == binding.MIMEJSON {
		return h.bindText(c)
	}

	data, fileName, err := h.readUpload(c)
	if err != nil {
		return nil, err
	}
	return &domain.SummarizationRequest{
		Document:     data,
		FileName:     fileName,
		ModelChoice:  domain.ModelChoice(c.PostForm("model_choice")),
		CustomPrompt: c.PostForm("custom_prompt"),
		Model:        c.PostForm("model"),
	}, nil
}

func (h *SummarizeHandler) bindText(c *gin.Context) (*domain.SummarizationRequest, error) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	var body TextSummarizeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: over %d bytes", domain.ErrFileTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequestBody, err)
	}
	return &domain.SummarizationRequest{
		Document:     []byte(body.Text),
		FileName:     textDocumentName,
		ModelChoice:  domain.ModelChoice(body.ModelChoice),
		CustomPrompt: body.Prompt,
		Model:        body.Model,
	}, nil
}

func (h *SummarizeHandler) readUpload(c *gin.Context) ([]byte, string, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return nil, "", domain.ErrMissingFile
	}
	defer func() { _ = file.Close() }()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return nil, "", fmt.Errorf("%w: %d bytes", domain.ErrFileTooLarge, header.Size)
	}

	var r io.Reader = file
	if h.maxUploadBytes > 0 {
		r = io.LimitReader(file, h.maxUploadBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("reading upload: %w", err)
	}
	if h.maxUploadBytes > 0 && int64(len(data)) > h.maxUploadBytes {
		return nil, "", domain.ErrFileTooLarge
	}
	return data, header.Filename, nil
}
