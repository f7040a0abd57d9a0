package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"previsit-triage/internal/models"
)

const (
	parkingInfo = "Free parking available in main lot. Valet service for emergency patients."
	directions  = "Enter through main entrance. Follow signs to appropriate department."

	// The plan confidence is a fixed base value regardless of triage path,
	// not a computed aggregate.
	planConfidence = 0.85
)

// GenerateVisitPlan produces the terminal visit artifact for a session:
// the triage recommendation plus logistics and a summary line.
func (e *Engine) GenerateVisitPlan(ctx context.Context, sessionID string) (*models.VisitPlan, error) {
	p, ok := e.session(sessionID)
	if !ok {
		return nil, models.ErrNoPatientData
	}

	rec, err := e.GenerateTriageRecommendation(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var checkIn, totalTime string
	switch rec.UrgencyLevel {
	case models.UrgencyEmergency:
		checkIn = "Immediately"
		totalTime = "2-4 hours"
	case models.UrgencyUrgent:
		checkIn = time.Now().Add(2*time.Hour).Format("3:04 PM") + " today"
		totalTime = "1-2 hours"
	default:
		checkIn = "Next available appointment"
		totalTime = "1 hour"
	}

	return &models.VisitPlan{
		PatientInfo:          *p,
		TriageRecommendation: *rec,
		CheckInTime:          checkIn,
		EstimatedTotalTime:   totalTime,
		ParkingInfo:          parkingInfo,
		Directions:           directions,
		FollowUpNeeded:       rec.UrgencyLevel != models.UrgencyEmergency,
		VisitSummary:         visitSummary(p, rec),
		ConfidenceScore:      planConfidence,
	}, nil
}

// visitSummary pipe-joins the key plan fields for logging and export.
func visitSummary(p *models.PatientInfo, rec *models.TriageRecommendation) string {
	parts := []string{
		fmt.Sprintf("Patient: %d-year-old %s", p.Age, p.Gender),
		"Chief complaint: " + p.ChiefComplaint,
		"Recommended: " + rec.RecommendedDepartment,
		"Urgency: " + rec.UrgencyLevel,
		"Estimated wait: " + rec.EstimatedWaitTime,
	}
	if p.InsuranceProvider != "" {
		parts = append(parts, "Insurance: "+p.InsuranceProvider)
	}
	return strings.Join(parts, " | ")
}
