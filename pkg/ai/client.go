// pkg/ai/client.go

package ai

import "context"

// Request is a single image analysis call. The model is asked for JSON only;
// the caller is responsible for recovering it from the returned text.
type Request struct {
	Image             []byte
	MIMEType          string
	SystemInstruction string
	Instruction       string
}

// Client is the external multimodal model. Implementations make exactly one
// upstream call per Generate and never retry.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
