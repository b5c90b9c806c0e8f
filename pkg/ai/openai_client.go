// pkg/ai/openai_client.go

package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// openAI talks to any OpenAI-compatible chat endpoint (OpenAI itself,
// llama.cpp server, vLLM).
type openAI struct {
	llm *openai.LLM
}

func NewOpenAI(endpoint, key, model string) (Client, error) {
	opts := []openai.Option{openai.WithToken(key), openai.WithModel(model)}
	if endpoint != "" {
		opts = append(opts, openai.WithBaseURL(baseURL(endpoint)))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return &openAI{llm: llm}, nil
}

func (c *openAI) Generate(ctx context.Context, req Request) (string, error) {
	msgs := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(req.SystemInstruction)},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.ImageURLPart(dataURL(req.MIMEType, req.Image)),
				llms.TextPart(req.Instruction),
			},
		},
	}
	resp, err := c.llm.GenerateContent(ctx, msgs, llms.WithJSONMode(), llms.WithTemperature(0.2))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// baseURL accepts both "https://host" and "https://host/v1".
func baseURL(endpoint string) string {
	u := strings.TrimRight(endpoint, "/")
	if !strings.HasSuffix(u, "/v1") {
		u += "/v1"
	}
	return u
}

// dataURL inlines the image; chat completions only take images as image_url.
func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
