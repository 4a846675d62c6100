// Package prompt builds the final prompt sent to a summarization backend.
package prompt

import (
	"strings"

	"docsummary/internal/domain"
)

// DefaultInstruction is used when the caller supplies no custom instruction.
const DefaultInstruction = "Summarize this text concisely"

// Build frames instruction and text according to style. An empty or blank
// instruction falls back to DefaultInstruction. A trailing colon on the
// instruction is normalized so both the default and custom instructions end in
// exactly one.
func Build(style domain.PromptStyle, instruction, text string) string {
	body := Instruction(instruction) + ":\n" + text

	switch style {
	case domain.PromptStyleConversational:
		return "\n\nHuman: " + body + "\n\nAssistant:"
	default:
		return body
	}
}

// Instruction returns the normalized instruction without its trailing colon.
func Instruction(custom string) string {
	instruction := strings.TrimSpace(custom)
	instruction = strings.TrimRight(instruction, ":")
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return DefaultInstruction
	}
	return instruction
}
