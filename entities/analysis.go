package entities

import "time"

// Outcome kinds recorded for each analyze call.
const (
	OutcomeOK             = "ok"
	OutcomeInvalidInput   = "invalid_input"
	OutcomeMisconfigured  = "server_misconfigured"
	OutcomeResponseFormat = "response_format_error"
	OutcomeUpstream       = "upstream_error"
)

// AnalysisLog is one analyze request as seen by the audit store. The model's
// report is deliberately not a column.
type AnalysisLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	RequestID string    `gorm:"index" json:"request_id"`
	Filename  string    `json:"filename"`
	MIMEType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Backend   string    `json:"backend"`
	Model     string    `json:"model"`
	Outcome   string    `gorm:"index" json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	LatencyMS int64     `json:"latency_ms"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
