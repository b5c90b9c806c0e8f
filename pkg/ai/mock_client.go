// pkg/ai/mock_client.go

package ai

import "context"

// mockReport is what the mock backend answers for every image. It is shaped
// like a real "uncertain" diagnosis so a front end can be built offline.
const mockReport = `{
  "diagnosis_status": "uncertain",
  "plant_name": null,
  "detected_problem": {"name": null, "type": "unknown", "confidence": 0.0},
  "symptoms": [],
  "cause": null,
  "natural_remedies": [],
  "chemical_treatments": [],
  "prevention_tips": ["Water at the base of the plant and keep leaves dry."],
  "confidence_note": "Mock backend: no model was called.",
  "disclaimer": "This is AI-assisted guidance. Verify locally before applying chemicals."
}`

type mockClient struct{}

func NewMock() Client { return &mockClient{} }

func (m *mockClient) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return mockReport, nil
}
