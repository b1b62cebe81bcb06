package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Usage reports token accounting for a single invocation, as reported by
// the underlying provider (spec.md §6).
type Usage struct {
	InputTokens  int
	OutputTokens int
	Model        string
}

// Request is a single structured-output invocation: a system prompt, a
// user prompt, the JSON Schema the response must conform to, and the
// sampling temperature for this agent (spec.md §4.1-§4.5 assign distinct
// temperatures per agent).
type Request struct {
	System      string
	User        string
	Schema      map[string]any
	Temperature float64
}

// Response is the raw structured-output payload plus usage accounting.
type Response struct {
	Content json.RawMessage
	Usage   Usage
}

// Client is the narrow contract the pipeline's agents invoke against. It
// corresponds to spec.md §6's LLMClient: invoke_structured(system, user,
// schema) -> record matching schema, reporting token usage.
type Client interface {
	InvokeStructured(ctx context.Context, req Request) (Response, error)
}

// ErrEmptyResponse is returned by StripCodeFence-adjacent callers when a
// provider returns no content at all.
var ErrEmptyResponse = errors.New("llm: empty response content")

// StripCodeFence removes a surrounding ```json ... ``` or ``` ... ``` fence
// from raw model output, tolerating the common case where a model ignores
// "no markdown" instructions. Grounded on
// ai/model/converter/struct.go's stripMarkdownCodeBlock.
func StripCodeFence(raw string) string {
	content := strings.TrimSpace(raw)
	if len(content) < 6 {
		return content
	}
	if !strings.HasPrefix(content, "```") {
		return content
	}

	if idx := strings.Index(content, "```json"); idx != -1 {
		rest := content[idx+len("```json"):]
		if end := strings.LastIndex(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}
	if strings.HasSuffix(content, "```") {
		firstNewline := strings.Index(content, "\n")
		if firstNewline == -1 {
			return strings.TrimSpace(content[3 : len(content)-3])
		}
		return strings.TrimSpace(content[firstNewline+1 : len(content)-3])
	}
	return content
}

// Decode unmarshals a structured-output payload into T, stripping a
// markdown code fence first if present.
func Decode[T any](raw json.RawMessage) (T, error) {
	var v T
	content := StripCodeFence(string(raw))
	if content == "" {
		return v, ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return v, err
	}
	return v, nil
}
