// pkg/ai/ollama_client.go

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const defaultOllamaURL = "http://localhost:11434"

type ollama struct {
	client *api.Client
	model  string
}

func NewOllama(endpoint, model string) (Client, error) {
	if endpoint == "" {
		endpoint = defaultOllamaURL
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL: %w", err)
	}
	// drop any path like /api/chat; the SDK adds its own
	base := &url.URL{Scheme: u.Scheme, Host: u.Host}
	return &ollama{client: api.NewClient(base, http.DefaultClient), model: model}, nil
}

func (o *ollama) Generate(ctx context.Context, req Request) (string, error) {
	stream := false
	chat := &api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{
			{Role: "system", Content: req.SystemInstruction},
			{Role: "user", Content: req.Instruction, Images: []api.ImageData{req.Image}},
		},
		Stream: &stream,
		Format: json.RawMessage(`"json"`),
	}

	var out strings.Builder
	err := o.client.Chat(ctx, chat, func(resp api.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat error: %w", err)
	}
	return out.String(), nil
}
