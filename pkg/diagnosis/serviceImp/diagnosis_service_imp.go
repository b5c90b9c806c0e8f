package serviceImp

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"plantdoctor/config"
	"plantdoctor/entities"
	"plantdoctor/pkg/ai"
	"plantdoctor/pkg/diagnosis"
	"plantdoctor/pkg/diagnosis/extract"
	"plantdoctor/pkg/diagnosis/service"
)

type Options struct {
	// Timeout bounds the upstream call. Zero means the call runs as long as
	// the request context allows.
	Timeout time.Duration
	// StrictSchema rejects reports whose enums or ranges don't match the
	// schema in the system instruction.
	StrictSchema bool
	// Extractor defaults to extract.Default().
	Extractor extract.Extractor
}

type DiagnosisSvc struct {
	llm     ai.Client
	prompts config.Prompts
	ext     extract.Extractor
	opts    Options
}

// NewDiagnosisService wires the adapter. llm may be nil when no credential is
// configured; every Analyze then reports a misconfigured server.
func NewDiagnosisService(llm ai.Client, prompts config.Prompts, opts Options) *DiagnosisSvc {
	ext := opts.Extractor
	if ext == nil {
		ext = extract.Default()
	}
	return &DiagnosisSvc{llm: llm, prompts: prompts, ext: ext, opts: opts}
}

var _ service.DiagnosisService = (*DiagnosisSvc)(nil)

func (s *DiagnosisSvc) Configured() bool { return s.llm != nil }

func (s *DiagnosisSvc) Analyze(ctx context.Context, in service.Upload) (json.RawMessage, error) {
	if s.llm == nil {
		return nil, diagnosis.Misconfigured()
	}
	if !strings.HasPrefix(in.MIMEType, "image/") {
		return nil, diagnosis.NotImage(in.MIMEType)
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	text, err := s.llm.Generate(ctx, ai.Request{
		Image:             in.Data,
		MIMEType:          in.MIMEType,
		SystemInstruction: s.prompts.SystemInstruction,
		Instruction:       s.prompts.Instruction,
	})
	if err != nil {
		return nil, diagnosis.Upstream(err)
	}

	raw, err := s.ext.Extract(text)
	if err != nil {
		return nil, diagnosis.ResponseFormat(err, "")
	}
	if s.opts.StrictSchema {
		if err := checkSchema(raw); err != nil {
			return nil, diagnosis.ResponseFormat(err, err.Error())
		}
	}
	return raw, nil
}

func checkSchema(raw json.RawMessage) error {
	var r entities.DiagnosisReport
	if err := json.Unmarshal(raw, &r); err != nil {
		return err
	}
	return r.Validate()
}
