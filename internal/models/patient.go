package models

// Urgency tiers returned by the triage engine.
const (
	UrgencyEmergency = "EMERGENCY"
	UrgencyUrgent    = "URGENT"
	UrgencyRoutine   = "ROUTINE"
)

// MedicalDisclaimer is appended to every non-emergency recommendation.
const MedicalDisclaimer = "This is not medical advice. Please consult a qualified healthcare provider for proper medical evaluation and treatment."

// EmergencyDisclaimer replaces the standard one on the emergency fast path.
const EmergencyDisclaimer = "This is an emergency situation. Seek immediate medical attention."

// PatientInfo accumulates everything collected during one intake session.
// It is mutated only through the intake engine's collect methods and is
// read-only once a recommendation has been generated.
type PatientInfo struct {
	Age    int
	Gender string

	ChiefComplaint  string
	Symptoms        []string
	SymptomDuration string
	SymptomSeverity int // 1-10, 0 until collected
	PainLocation    string

	MedicalHistory     []string
	CurrentMedications []string
	Allergies          []string

	InsuranceProvider string
	InsuranceMemberID string
	PhoneNumber       string
	Email             string

	PreferredTime     string
	UrgencyPerception string

	SessionID string
	Timestamp string
}

// InsuranceCoverage is the copay snapshot attached to a recommendation.
type InsuranceCoverage struct {
	Provider         string
	Accepted         bool
	EmergencyCopay   string
	UrgentCareCopay  string
	SpecialistCopay  string
	PrimaryCareCopay string
	Notes            string
}

// TriageRecommendation is the immutable result of one triage request.
type TriageRecommendation struct {
	UrgencyLevel          string
	RecommendedDepartment string
	EstimatedWaitTime     string
	PriorityScore         int // 1 is highest priority

	NextSteps               []string
	RequiredDocuments       []string
	PreparationInstructions []string

	RecommendedTimeSlots []string
	AlternativeOptions   []string

	InsuranceCoverage InsuranceCoverage
	EstimatedCost     string

	WarningSigns      []string
	MedicalDisclaimer string
}

// VisitPlan is the terminal artifact of an intake session.
type VisitPlan struct {
	PatientInfo          PatientInfo
	TriageRecommendation TriageRecommendation

	CheckInTime        string
	EstimatedTotalTime string
	ParkingInfo        string
	Directions         string

	FollowUpNeeded     bool
	SpecialistReferral string

	VisitSummary    string
	ConfidenceScore float64
}
