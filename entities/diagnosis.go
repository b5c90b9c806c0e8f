package entities

import (
	"fmt"
)

const (
	StatusConfirmed = "confirmed"
	StatusUncertain = "uncertain"
)

// DiagnosisReport is the document the model is asked to produce. It is only
// decoded when strict schema checking is on or by the verify tool; the API
// otherwise relays the model's JSON as-is.
type DiagnosisReport struct {
	DiagnosisStatus    string              `json:"diagnosis_status"` // confirmed|uncertain
	PlantName          *string             `json:"plant_name"`
	DetectedProblem    *DetectedProblem    `json:"detected_problem"`
	Symptoms           []string            `json:"symptoms"`
	Cause              *string             `json:"cause"`
	NaturalRemedies    []NaturalRemedy     `json:"natural_remedies"`
	ChemicalTreatments []ChemicalTreatment `json:"chemical_treatments"`
	PreventionTips     []string            `json:"prevention_tips"`
	ConfidenceNote     *string             `json:"confidence_note"`
	Disclaimer         string              `json:"disclaimer"`
}

type DetectedProblem struct {
	Name       *string  `json:"name"`
	Type       string   `json:"type"` // disease|pest|nutrient_deficiency|unknown
	Confidence *float64 `json:"confidence"`
}

type NaturalRemedy struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Frequency   string   `json:"frequency"`
	SafetyLevel string   `json:"safety_level"` // low|medium
}

type ChemicalTreatment struct {
	TreatmentType    string   `json:"treatment_type"` // fungicide|pesticide|fertilizer
	ActiveIngredient string   `json:"active_ingredient"`
	UsageGuidance    string   `json:"usage_guidance"`
	Precautions      []string `json:"precautions"`
}

var (
	problemTypes   = set("disease", "pest", "nutrient_deficiency", "unknown")
	safetyLevels   = set("low", "medium")
	treatmentTypes = set("fungicide", "pesticide", "fertilizer")
)

// Validate checks enums and ranges. Missing optional sections are fine; the
// model is told to use null when unsure.
func (r *DiagnosisReport) Validate() error {
	if r.DiagnosisStatus != StatusConfirmed && r.DiagnosisStatus != StatusUncertain {
		return fmt.Errorf("diagnosis_status %q is not confirmed|uncertain", r.DiagnosisStatus)
	}
	if p := r.DetectedProblem; p != nil {
		if p.Type != "" && !problemTypes[p.Type] {
			return fmt.Errorf("detected_problem.type %q is not allowed", p.Type)
		}
		if p.Confidence != nil && (*p.Confidence < 0 || *p.Confidence > 1) {
			return fmt.Errorf("detected_problem.confidence %v is outside 0..1", *p.Confidence)
		}
	}
	for i, nr := range r.NaturalRemedies {
		if nr.SafetyLevel != "" && !safetyLevels[nr.SafetyLevel] {
			return fmt.Errorf("natural_remedies[%d].safety_level %q is not low|medium", i, nr.SafetyLevel)
		}
	}
	for i, ct := range r.ChemicalTreatments {
		if ct.TreatmentType != "" && !treatmentTypes[ct.TreatmentType] {
			return fmt.Errorf("chemical_treatments[%d].treatment_type %q is not allowed", i, ct.TreatmentType)
		}
	}
	return nil
}

func set(vals ...string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}
