package intake

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"previsit-triage/internal/models"
)

func TestVisitPlanEmergency(t *testing.T) {
	engine, _ := newTestEngine()

	id := engine.StartIntake()
	_, err := engine.CollectBasicInfo(id, 55, "male")
	require.NoError(t, err)
	require.NoError(t, engine.CollectSymptoms(id, "chest pain", []string{"chest pain"}, "1 hour", "severe", "chest"))

	plan, err := engine.GenerateVisitPlan(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "Immediately", plan.CheckInTime)
	assert.Equal(t, "2-4 hours", plan.EstimatedTotalTime)
	assert.False(t, plan.FollowUpNeeded, "emergency visits hand off to the ED, no scheduled follow-up")
	assert.Equal(t, models.UrgencyEmergency, plan.TriageRecommendation.UrgencyLevel)
}

func TestVisitPlanRoutine(t *testing.T) {
	engine, _ := newTestEngine()

	id := engine.StartIntake()
	_, err := engine.CollectBasicInfo(id, 28, "female")
	require.NoError(t, err)
	require.NoError(t, engine.CollectSymptoms(id, "skin rash", []string{"rash"}, "2 days", "mild", "arm"))
	require.NoError(t, engine.CollectInsuranceInfo(id, "Aetna", "AET-42"))

	plan, err := engine.GenerateVisitPlan(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "Next available appointment", plan.CheckInTime)
	assert.Equal(t, "1 hour", plan.EstimatedTotalTime)
	assert.True(t, plan.FollowUpNeeded)
	assert.InDelta(t, 0.85, plan.ConfidenceScore, 1e-9)
	assert.NotEmpty(t, plan.ParkingInfo)
	assert.NotEmpty(t, plan.Directions)

	// The summary pipe-joins the key fields.
	assert.Contains(t, plan.VisitSummary, "Patient: 28-year-old female")
	assert.Contains(t, plan.VisitSummary, "Chief complaint: skin rash")
	assert.Contains(t, plan.VisitSummary, "Insurance: Aetna")
	assert.Equal(t, 5, strings.Count(plan.VisitSummary, " | "))
}

func TestVisitPlanUrgent(t *testing.T) {
	engine, spy := newTestEngine()
	spy.triageResponse = &models.RAGResponse{
		Triage: &models.TriageHint{UrgencyLevel: "urgent", Department: "Cardiology"},
	}

	id := engine.StartIntake()
	_, err := engine.CollectBasicInfo(id, 48, "male")
	require.NoError(t, err)
	require.NoError(t, engine.CollectSymptoms(id, "palpitations", []string{"palpitations"}, "today", "moderate", ""))

	plan, err := engine.GenerateVisitPlan(context.Background(), id)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(plan.CheckInTime, " today"), "urgent check-in is a clock time today, got %q", plan.CheckInTime)
	assert.Equal(t, "1-2 hours", plan.EstimatedTotalTime)
	assert.True(t, plan.FollowUpNeeded)
}

func TestVisitPlanRegenerates(t *testing.T) {
	engine, _ := newTestEngine()

	id := engine.StartIntake()
	require.NoError(t, engine.CollectSymptoms(id, "fatigue", nil, "1 week", "mild", ""))

	first, err := engine.GenerateVisitPlan(context.Background(), id)
	require.NoError(t, err)

	// The session stays open after a plan; new facts change the next plan.
	require.NoError(t, engine.CollectSymptoms(id, "chest pain", []string{"chest pain"}, "1 hour", "severe", "chest"))
	second, err := engine.GenerateVisitPlan(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, models.UrgencyRoutine, first.TriageRecommendation.UrgencyLevel)
	assert.Equal(t, models.UrgencyEmergency, second.TriageRecommendation.UrgencyLevel)
}
