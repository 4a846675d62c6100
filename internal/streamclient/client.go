// Package streamclient consumes the summarization NDJSON stream and the
// /status server-sent-event feed.
package streamclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"docsummary/internal/domain"
)

// ErrTruncatedStream is returned when a summarization stream ends without a
// terminal event.
var ErrTruncatedStream = errors.New("stream ended without a terminal event")

// maxLineBytes bounds a single NDJSON or SSE line.
const maxLineBytes = 1 << 20

// APIError is a non-streamed error envelope returned by the server.
type APIError struct {
	StatusCode int
	Envelope   domain.ErrorEnvelope
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Envelope.Message)
}

// Client talks to a docsummary server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for baseURL. A nil httpClient uses a client without a
// timeout, since streams run as long as the backend call.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// SummarizeInput is one upload.
type SummarizeInput struct {
	FileName     string
	Data         []byte
	ModelChoice  domain.ModelChoice
	CustomPrompt string
	// Model is the vendor model identifier; empty keeps the server default.
	Model string
}

// Summarize uploads a document and calls fn for every event in order. It
// returns the terminal event. An extraction failure arrives as a terminal
// error event; other non-200 answers are *APIError.
func (c *Client) Summarize(ctx context.Context, in SummarizeInput, fn func(domain.ProgressEvent) error) (*domain.ProgressEvent, error) {
	body, contentType, err := encodeUpload(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/summarize", body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling summarize: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var event domain.ProgressEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("decoding event: %w", err)
		}
		if fn != nil {
			if err := fn(event); err != nil {
				return nil, err
			}
		}
		if event.IsTerminal() {
			return &event, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading stream: %w", err)
	}
	return nil, ErrTruncatedStream
}

// WatchStatus follows the /status feed and calls fn for every sample until
// ctx is done, the server closes the feed, or fn fails.
func (c *Client) WatchStatus(ctx context.Context, fn func(domain.StatusUpdate) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("calling status: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status feed returned %d", resp.StatusCode)
	}

	err = readEvents(resp.Body, func(data []byte) error {
		var update domain.StatusUpdate
		if err := json.Unmarshal(data, &update); err != nil {
			return fmt.Errorf("decoding status: %w", err)
		}
		return fn(update)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// readEvents splits an SSE body into events and hands each event's data to fn.
// Multiple data lines of one event are joined with "\n".
func readEvents(r io.Reader, fn func(data []byte) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4*1024), maxLineBytes)

	var data []byte
	dispatch := func() error {
		if data == nil {
			return nil
		}
		d := data
		data = nil
		return fn(d)
	}

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if err := dispatch(); err != nil {
				return err
			}
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		if field == "data" {
			if data != nil {
				data = append(data, '\n')
			}
			data = append(data, value...)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading status feed: %w", err)
	}
	return dispatch()
}

func encodeUpload(in SummarizeInput) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	part, err := w.CreateFormFile("file", in.FileName)
	if err != nil {
		return nil, "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(in.Data); err != nil {
		return nil, "", fmt.Errorf("writing form file: %w", err)
	}
	if in.ModelChoice != "" {
		if err := w.WriteField("model_choice", string(in.ModelChoice)); err != nil {
			return nil, "", err
		}
	}
	if in.CustomPrompt != "" {
		if err := w.WriteField("custom_prompt", in.CustomPrompt); err != nil {
			return nil, "", err
		}
	}
	if in.Model != "" {
		if err := w.WriteField("model", in.Model); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxLineBytes))
	if err := json.Unmarshal(raw, &apiErr.Envelope); err != nil {
		apiErr.Envelope = domain.ErrorEnvelope{
			Status:  domain.StatusError,
			Message: strings.TrimSpace(string(raw)),
		}
	}
	return apiErr
}
