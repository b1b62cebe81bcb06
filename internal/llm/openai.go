package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog/log"
)

// OpenAIClient adapts github.com/openai/openai-go/v3's chat completions API
// to the Client contract, requesting a JSON-schema-constrained response for
// every invocation. Grounded on
// ai/extensions/models/openai/chat_model.go's request-building and usage
// extraction.
type OpenAIClient struct {
	api   openai.Client
	model string
}

// NewOpenAIClient builds an OpenAIClient for the given model, using
// whatever API key / base URL options the caller supplies (typically
// option.WithAPIKey, option.WithBaseURL for self-hosted/compatible gateways).
func NewOpenAIClient(model string, opts ...option.RequestOption) *OpenAIClient {
	return &OpenAIClient{
		api:   openai.NewClient(opts...),
		model: model,
	}
}

func (c *OpenAIClient) InvokeStructured(ctx context.Context, req Request) (Response, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   "polly_structured_output",
		Schema: req.Schema,
		Strict: openai.Bool(true),
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return Response{}, fmt.Errorf("llm: openai invoke: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	log.Ctx(ctx).Debug().Str("model", c.model).Int("content_len", len(content)).Msg("llm invocation complete")

	return Response{
		Content: []byte(content),
		Usage: Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
			Model:        c.model,
		},
	}, nil
}
