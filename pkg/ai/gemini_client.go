// pkg/ai/gemini_client.go

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type gemini struct {
	client *genai.Client
	model  string
}

// NewGemini talks to the Gemini API. endpoint overrides the default base URL
// and is normally empty.
func NewGemini(ctx context.Context, key, endpoint, model string) (Client, error) {
	if key == "" {
		return nil, errors.New("gemini: api key is empty")
	}
	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if endpoint != "" {
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: endpoint}
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &gemini{client: c, model: model}, nil
}

func (g *gemini) Generate(ctx context.Context, req Request) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(req.Image, req.MIMEType),
			genai.NewPartFromText(req.Instruction),
		}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
			return "", fmt.Errorf("gemini blocked the prompt: %s", fb.BlockReason)
		}
		return "", errors.New("gemini returned no candidates")
	}
	return resp.Text(), nil
}
