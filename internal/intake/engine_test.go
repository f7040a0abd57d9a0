package intake

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"previsit-triage/internal/config"
	"previsit-triage/internal/models"
)

var testHospital = config.HospitalConfig{
	Name:           "SuperHealth Medical Center",
	Phone:          "(555) 123-HEALTH",
	EmergencyPhone: "911",
}

// spyResponder records every query so tests can assert whether and how
// retrieval was consulted.
type spyResponder struct {
	calls             []string
	triageResponse    *models.RAGResponse
	insuranceResponse *models.RAGResponse
}

func (s *spyResponder) Answer(_ context.Context, query string) (*models.RAGResponse, error) {
	s.calls = append(s.calls, query)
	if strings.HasPrefix(query, "insurance coverage copay") {
		if s.insuranceResponse != nil {
			return s.insuranceResponse, nil
		}
		return &models.RAGResponse{Answer: "Contact your insurance provider."}, nil
	}
	if s.triageResponse != nil {
		return s.triageResponse, nil
	}
	return &models.RAGResponse{}, nil
}

func newTestEngine() (*Engine, *spyResponder) {
	spy := &spyResponder{}
	return NewEngine(spy, testHospital), spy
}

func TestCollectSymptomsRequiresSession(t *testing.T) {
	engine, _ := newTestEngine()

	err := engine.CollectSymptoms("no-such-session", "headache", []string{"headache"}, "2 days", "mild", "")
	assert.ErrorIs(t, err, models.ErrSessionNotStarted)
}

func TestCollectorsRequireSession(t *testing.T) {
	engine, _ := newTestEngine()

	assert.ErrorIs(t, engine.CollectMedicalHistory("x", nil, nil, nil), models.ErrSessionNotStarted)
	assert.ErrorIs(t, engine.CollectInsuranceInfo("x", "Aetna", ""), models.ErrSessionNotStarted)
	assert.ErrorIs(t, engine.CollectContactInfo("x", "555-0100", ""), models.ErrSessionNotStarted)
	assert.ErrorIs(t, engine.CollectPreferences("x", "morning", "not urgent"), models.ErrSessionNotStarted)
}

func TestGenerateVisitPlanRequiresSession(t *testing.T) {
	engine, _ := newTestEngine()

	_, err := engine.GenerateVisitPlan(context.Background(), "never-started")
	assert.ErrorIs(t, err, models.ErrNoPatientData)
}

func TestCollectBasicInfoAutoStartsSession(t *testing.T) {
	engine, _ := newTestEngine()

	sessionID, err := engine.CollectBasicInfo("", 42, "Female")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	p, err := engine.Patient(sessionID)
	require.NoError(t, err)
	assert.Equal(t, 42, p.Age)
	assert.Equal(t, "female", p.Gender)
}

func TestStartIntakeDiscardsNothingButIsolatesSessions(t *testing.T) {
	engine, _ := newTestEngine()

	first := engine.StartIntake()
	second := engine.StartIntake()
	require.NotEqual(t, first, second)

	require.NoError(t, engine.CollectSymptoms(first, "rash", []string{"rash"}, "1 day", "mild", ""))
	require.NoError(t, engine.CollectSymptoms(second, "cough", []string{"cough"}, "3 days", "moderate", ""))

	p1, err := engine.Patient(first)
	require.NoError(t, err)
	p2, err := engine.Patient(second)
	require.NoError(t, err)
	assert.Equal(t, "rash", p1.ChiefComplaint)
	assert.Equal(t, "cough", p2.ChiefComplaint)
}

func TestEndIntakeDiscardsSession(t *testing.T) {
	engine, _ := newTestEngine()

	id := engine.StartIntake()
	engine.EndIntake(id)

	_, err := engine.Patient(id)
	assert.ErrorIs(t, err, models.ErrSessionNotStarted)
}

func TestSeverityParsing(t *testing.T) {
	engine, _ := newTestEngine()

	cases := map[string]int{
		"mild":     1,
		"moderate": 5,
		"severe":   9,
		"7":        7,
		"15":       10, // out-of-scale numerics clamp, keeping their urgency
		"no idea":  5,  // unparseable input is logged and recorded as moderate
	}
	for input, want := range cases {
		id := engine.StartIntake()
		require.NoError(t, engine.CollectSymptoms(id, "symptom", nil, "1 day", input, ""))
		p, err := engine.Patient(id)
		require.NoError(t, err)
		assert.Equal(t, want, p.SymptomSeverity, "severity input %q", input)
	}
}
