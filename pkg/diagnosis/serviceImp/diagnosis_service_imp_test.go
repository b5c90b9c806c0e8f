package serviceImp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"plantdoctor/config"
	"plantdoctor/pkg/ai"
	"plantdoctor/pkg/diagnosis"
	"plantdoctor/pkg/diagnosis/service"
)

const validReport = `{"diagnosis_status":"confirmed","plant_name":"Tomato","detected_problem":{"name":"Early blight","type":"disease","confidence":0.86},"symptoms":["brown rings"],"cause":"Alternaria solani","natural_remedies":[],"chemical_treatments":[{"treatment_type":"fungicide","active_ingredient":"copper","usage_guidance":"follow label","precautions":["gloves"]}],"prevention_tips":[],"confidence_note":null,"disclaimer":"This is AI-assisted guidance. Verify locally before applying chemicals."}`

type fakeLLM struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []ai.Request
	wait  bool
}

func (f *fakeLLM) Generate(ctx context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

func (f *fakeLLM) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func upload(mime string) service.Upload {
	return service.Upload{Filename: "leaf.jpg", MIMEType: mime, Data: []byte{0xff, 0xd8, 0xff}}
}

func TestAnalyzeReturnsExactJSON(t *testing.T) {
	llm := &fakeLLM{text: validReport}
	prompts := config.DefaultPrompts()
	svc := NewDiagnosisService(llm, prompts, Options{})

	raw, err := svc.Analyze(context.Background(), upload("image/jpeg"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != validReport {
		t.Errorf("report changed on the way through:\n%s", raw)
	}
	if llm.count() != 1 {
		t.Fatalf("expected one upstream call, got %d", llm.count())
	}
	req := llm.calls[0]
	if req.MIMEType != "image/jpeg" || len(req.Image) != 3 {
		t.Errorf("image not forwarded: %+v", req)
	}
	if req.SystemInstruction != prompts.SystemInstruction || req.Instruction != prompts.Instruction {
		t.Error("prompts not forwarded")
	}
}

func TestAnalyzeExtractsWrappedJSON(t *testing.T) {
	llm := &fakeLLM{text: "Here is the analysis:\n```json\n" + validReport + "\n```\nGood luck!"}
	svc := NewDiagnosisService(llm, config.DefaultPrompts(), Options{})

	raw, err := svc.Analyze(context.Background(), upload("image/png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != validReport {
		t.Errorf("expected embedded object, got %s", raw)
	}
}

func TestAnalyzeFormatError(t *testing.T) {
	llm := &fakeLLM{text: "Sorry, I can't help with that."}
	svc := NewDiagnosisService(llm, config.DefaultPrompts(), Options{})

	_, err := svc.Analyze(context.Background(), upload("image/png"))
	if !errors.Is(err, diagnosis.ErrResponseFormat) {
		t.Fatalf("expected response format error, got %v", err)
	}
	if diagnosis.Detail(err) != "AI response format error." {
		t.Errorf("detail = %q", diagnosis.Detail(err))
	}
}

func TestAnalyzeUpstreamError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("simulated network failure")}
	svc := NewDiagnosisService(llm, config.DefaultPrompts(), Options{})

	_, err := svc.Analyze(context.Background(), upload("image/png"))
	if !errors.Is(err, diagnosis.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if diagnosis.Detail(err) != "simulated network failure" {
		t.Errorf("detail = %q", diagnosis.Detail(err))
	}
	if llm.count() != 1 {
		t.Errorf("upstream errors must not be retried, got %d calls", llm.count())
	}
}

func TestAnalyzeRejectsNonImage(t *testing.T) {
	for _, mime := range []string{"", "text/plain", "application/pdf", "IMAGE/PNG", "application/octet-stream"} {
		llm := &fakeLLM{text: validReport}
		svc := NewDiagnosisService(llm, config.DefaultPrompts(), Options{})
		_, err := svc.Analyze(context.Background(), upload(mime))
		if !errors.Is(err, diagnosis.ErrInvalidInput) {
			t.Errorf("%q: expected invalid input, got %v", mime, err)
		}
		if llm.count() != 0 {
			t.Errorf("%q: upstream called for a non-image", mime)
		}
	}
}

func TestAnalyzeWithoutClient(t *testing.T) {
	svc := NewDiagnosisService(nil, config.DefaultPrompts(), Options{})
	if svc.Configured() {
		t.Fatal("service without a client must not report configured")
	}
	_, err := svc.Analyze(context.Background(), upload("image/jpeg"))
	if !errors.Is(err, diagnosis.ErrServerMisconfigured) {
		t.Fatalf("expected misconfigured, got %v", err)
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	llm := &fakeLLM{wait: true}
	svc := NewDiagnosisService(llm, config.DefaultPrompts(), Options{Timeout: 20 * time.Millisecond})

	_, err := svc.Analyze(context.Background(), upload("image/jpeg"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !errors.Is(err, diagnosis.ErrUpstream) {
		t.Errorf("timeouts are upstream errors, got %v", err)
	}
}

func TestStrictSchema(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		wantErr string
	}{
		{"valid", validReport, ""},
		{"bad status", strings.Replace(validReport, `"confirmed"`, `"maybe"`, 1), "diagnosis_status"},
		{"confidence out of range", strings.Replace(validReport, `0.86`, `86`, 1), "confidence"},
		{"bad treatment", strings.Replace(validReport, `"fungicide"`, `"herbicide"`, 1), "treatment_type"},
		{"not an object", `["confirmed"]`, "cannot unmarshal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewDiagnosisService(&fakeLLM{text: tc.text}, config.DefaultPrompts(), Options{StrictSchema: true})
			_, err := svc.Analyze(context.Background(), upload("image/jpeg"))
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, diagnosis.ErrResponseFormat) {
				t.Fatalf("expected response format error, got %v", err)
			}
			if !strings.Contains(diagnosis.Detail(err), tc.wantErr) {
				t.Errorf("detail %q should mention %q", diagnosis.Detail(err), tc.wantErr)
			}
		})
	}
}

func TestLooseModeKeepsOffSchemaJSON(t *testing.T) {
	off := strings.Replace(validReport, `"confirmed"`, `"maybe"`, 1)
	svc := NewDiagnosisService(&fakeLLM{text: off}, config.DefaultPrompts(), Options{})
	raw, err := svc.Analyze(context.Background(), upload("image/jpeg"))
	if err != nil {
		t.Fatalf("loose mode should not validate the schema: %v", err)
	}
	if string(raw) != off {
		t.Errorf("got %s", raw)
	}
}
