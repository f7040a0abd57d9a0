package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"previsit-triage/internal/models"
)

// Phrases that short-circuit triage to the emergency fast path.
var emergencyKeywords = []string{
	"chest pain", "difficulty breathing", "unconscious", "bleeding heavily",
	"severe injury", "overdose", "suicide", "heart attack", "stroke",
	"allergic reaction", "severe burn", "broken bone", "head injury",
}

const (
	defaultDepartment = "Internal Medicine"
	defaultWait       = "15-30 minutes"
	defaultPriority   = 3
)

// symptomsText lowercases the chief complaint plus symptom list into one
// searchable string.
func symptomsText(p *models.PatientInfo) string {
	parts := append([]string{p.ChiefComplaint}, p.Symptoms...)
	return strings.ToLower(strings.Join(parts, " "))
}

// checkEmergencyIndicators runs the rule-based emergency screen. It is
// deliberately independent of retrieval: emergency classification must not
// depend on a vector search succeeding.
func checkEmergencyIndicators(p *models.PatientInfo) (bool, []string) {
	var flags []string
	text := symptomsText(p)

	for _, keyword := range emergencyKeywords {
		if strings.Contains(text, keyword) {
			flags = append(flags, "Emergency keyword detected: "+keyword)
		}
	}

	if p.SymptomSeverity >= 8 {
		flags = append(flags, fmt.Sprintf("High severity score: %d/10", p.SymptomSeverity))
	}

	if p.Age >= 65 && strings.Contains(text, "chest pain") {
		flags = append(flags, "Chest pain in elderly patient")
	}
	if p.Age > 0 && p.Age < 5 && strings.Contains(text, "fever") {
		flags = append(flags, "Fever in young child")
	}

	return len(flags) > 0, flags
}

// GenerateTriageRecommendation runs the emergency screen first and falls
// back to retrieval-driven triage. It never fails because an enrichment
// step (retrieval, insurance lookup) failed.
func (e *Engine) GenerateTriageRecommendation(ctx context.Context, sessionID string) (*models.TriageRecommendation, error) {
	p, ok := e.session(sessionID)
	if !ok {
		return nil, models.ErrNoPatientData
	}

	if isEmergency, flags := checkEmergencyIndicators(p); isEmergency {
		log.Info().Str("session", sessionID).Strs("flags", flags).Msg("emergency indicators detected")
		return e.emergencyRecommendation(flags), nil
	}

	query := buildTriageQuery(p)
	response, err := e.responder.Answer(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("retrieval failed, using default routine recommendation")
		response = &models.RAGResponse{}
	}

	urgency := models.UrgencyRoutine
	department := defaultDepartment
	wait := defaultWait
	priority := defaultPriority
	if hint := response.Triage; hint != nil {
		if hint.UrgencyLevel != "" {
			urgency = strings.ToUpper(hint.UrgencyLevel)
		}
		if hint.Department != "" {
			department = hint.Department
		}
		if hint.EstimatedWait != "" {
			wait = hint.EstimatedWait
		}
		if hint.Priority > 0 {
			priority = hint.Priority
		}
	}

	coverage := e.lookupInsurance(ctx, p.InsuranceProvider)
	estimatedCost := "Contact insurance for estimate"
	if coverage.Provider != "" {
		estimatedCost = coverage.PrimaryCareCopay
	}

	return &models.TriageRecommendation{
		UrgencyLevel:            urgency,
		RecommendedDepartment:   department,
		EstimatedWaitTime:       wait,
		PriorityScore:           priority,
		NextSteps:               response.NextSteps,
		RequiredDocuments:       []string{"Photo ID", "Insurance card", "Medication list"},
		PreparationInstructions: preparationInstructions(p),
		RecommendedTimeSlots:    timeSlots(urgency),
		AlternativeOptions:      alternativeOptions(urgency),
		InsuranceCoverage:       coverage,
		EstimatedCost:           estimatedCost,
		WarningSigns:            warningSigns(p),
		MedicalDisclaimer:       models.MedicalDisclaimer,
	}, nil
}

// emergencyRecommendation is the fixed fast-path output. The triggered
// flags double as the warning-signs list.
func (e *Engine) emergencyRecommendation(flags []string) *models.TriageRecommendation {
	return &models.TriageRecommendation{
		UrgencyLevel:          models.UrgencyEmergency,
		RecommendedDepartment: "Emergency Department",
		EstimatedWaitTime:     "0-5 minutes",
		PriorityScore:         1,
		NextSteps: []string{
			"🚨 Seek immediate emergency care",
			fmt.Sprintf("Call %s if symptoms are severe", e.hospital.EmergencyPhone),
			"Go to nearest emergency room",
			"Do not drive yourself if experiencing severe symptoms",
		},
		RequiredDocuments: []string{"Photo ID", "Insurance card"},
		PreparationInstructions: []string{
			"Bring all current medications",
			"Prepare to describe symptoms to medical staff",
			"Have emergency contact information ready",
		},
		RecommendedTimeSlots: []string{"immediately", "ASAP"},
		AlternativeOptions:   []string{"Call " + e.hospital.EmergencyPhone, "Go to nearest emergency room"},
		InsuranceCoverage: models.InsuranceCoverage{
			Notes: "Emergency care typically covered",
		},
		EstimatedCost:     "Emergency copay applies",
		WarningSigns:      flags,
		MedicalDisclaimer: models.EmergencyDisclaimer,
	}
}

// buildTriageQuery turns the patient record into a retrieval query:
// complaint, symptoms, age, and a severity-band phrase.
func buildTriageQuery(p *models.PatientInfo) string {
	var parts []string
	if p.ChiefComplaint != "" {
		parts = append(parts, p.ChiefComplaint)
	}
	parts = append(parts, p.Symptoms...)
	if p.Age > 0 {
		parts = append(parts, fmt.Sprintf("age %d", p.Age))
	}
	if p.SymptomSeverity >= 7 {
		parts = append(parts, "severe symptoms")
	} else if p.SymptomSeverity >= 4 {
		parts = append(parts, "moderate symptoms")
	}
	return strings.Join(parts, " ")
}

func preparationInstructions(p *models.PatientInfo) []string {
	instructions := []string{
		"Arrive 15-30 minutes before your appointment",
		"Bring a list of current medications",
		"Prepare questions for your healthcare provider",
	}
	if len(p.Allergies) > 0 {
		instructions = append(instructions, "Be prepared to discuss your allergies")
	}
	if len(p.MedicalHistory) > 0 {
		instructions = append(instructions, "Bring relevant medical history documents")
	}
	return instructions
}

func timeSlots(urgency string) []string {
	switch urgency {
	case models.UrgencyEmergency:
		return []string{"immediately", "ASAP"}
	case models.UrgencyUrgent:
		return []string{"within 2 hours", "today if possible", "this evening"}
	default:
		return []string{"within 1-2 weeks", "next available appointment", "at your convenience"}
	}
}

func alternativeOptions(urgency string) []string {
	switch urgency {
	case models.UrgencyEmergency:
		return []string{"Emergency Department", "Call 911", "Urgent Care (if symptoms improve)"}
	case models.UrgencyUrgent:
		return []string{"Urgent Care", "Same-day appointment", "Telehealth consultation"}
	default:
		return []string{"Regular appointment", "Telehealth consultation", "Walk-in clinic"}
	}
}

// warningSigns lists what the patient should watch for, with extra entries
// keyed off chest and headache symptoms.
func warningSigns(p *models.PatientInfo) []string {
	signs := []string{
		"Worsening symptoms",
		"New severe symptoms",
		"Difficulty breathing",
		"Severe pain (8/10 or higher)",
	}

	text := symptomsText(p)
	if strings.Contains(text, "chest") {
		signs = append(signs,
			"Pain radiating to arm or jaw",
			"Sweating with chest pain",
			"Nausea with chest pain",
		)
	}
	if strings.Contains(text, "headache") {
		signs = append(signs,
			"Sudden severe headache",
			"Headache with stiff neck",
			"Headache with vision changes",
		)
	}
	return signs
}
