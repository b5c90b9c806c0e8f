package service

import (
	"context"
	"encoding/json"
)

// Upload is the image part of an analyze request.
type Upload struct {
	Filename string
	MIMEType string
	Data     []byte
}

type DiagnosisService interface {
	// Configured reports whether an upstream client is available. When false,
	// Analyze fails without calling out.
	Configured() bool
	Analyze(ctx context.Context, in Upload) (json.RawMessage, error)
}
