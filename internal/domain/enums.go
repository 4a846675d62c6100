package domain

// EventStatus is the status field of a progress event.
type EventStatus string

const (
	StatusIncoming  EventStatus = "incoming"
	StatusCompleted EventStatus = "completed"
	StatusError     EventStatus = "error"
)

// IsTerminal reports whether an event with this status ends the stream.
func (s EventStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Stage labels a phase of the summarization lifecycle.
type Stage string

const (
	StageExtraction     Stage = "extraction"
	StageProcessing     Stage = "processing"
	StageInitialization Stage = "initialization"
	StageGeneration     Stage = "generation"
)

// ModelChoice selects the backend for a summarization request.
type ModelChoice string

const (
	ModelGemini ModelChoice = "gemini"
	ModelClaude ModelChoice = "claude"
)

// DefaultModelChoice is used when the form omits model_choice.
const DefaultModelChoice = ModelClaude

// PromptStyle is the conversational convention a backend expects its prompt in.
type PromptStyle string

const (
	// PromptStylePlain concatenates instruction and text with no framing.
	PromptStylePlain PromptStyle = "plain"
	// PromptStyleConversational wraps the prompt in Human/Assistant turns.
	PromptStyleConversational PromptStyle = "conversational"
)

// DocumentKind is the kind of uploaded document.
type DocumentKind string

const (
	DocumentPDF  DocumentKind = "pdf"
	DocumentText DocumentKind = "text"
)

// AllowedExtensions maps file extensions (without dot) to DocumentKind.
var AllowedExtensions = map[string]DocumentKind{
	"pdf": DocumentPDF,
	"txt": DocumentText,
	"md":  DocumentText,
}

// AllowedContentTypes maps sniffed MIME types (without parameters) to DocumentKind.
var AllowedContentTypes = map[string]DocumentKind{
	"application/pdf": DocumentPDF,
	"text/plain":      DocumentText,
}

// Fixed user-facing strings of the streaming protocol.
const (
	FallbackSummary      = "Invalid model choice or missing API key."
	NoSummaryPlaceholder = "No summary generated."
	ExtractionFailedText = "No extractable text found in PDF."
	GenerationFailedText = "An error occurred while generating the summary."
	MsgExtractionFailed  = "PDF extraction failed"
	MsgExtracting        = "Extracting text from PDF..."
	MsgInitializing      = "Initializing model..."
	MsgGenerating        = "Generating summary..."
	MsgCompleted         = "Summary generation completed successfully"
	MsgGenerationFailed  = "Summary generation failed"
)
