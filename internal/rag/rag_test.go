package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"previsit-triage/internal/config"
	"previsit-triage/internal/models"
	"previsit-triage/internal/vectordb"
)

var testHospital = config.HospitalConfig{
	Name:           "SuperHealth Medical Center",
	Phone:          "(555) 123-HEALTH",
	EmergencyPhone: "911",
}

// fakeStore returns canned results so tests control distances precisely.
type fakeStore struct {
	results []vectordb.Result
	err     error
}

func (f *fakeStore) Ingest(context.Context, []models.Document) error { return nil }

func (f *fakeStore) Query(context.Context, string, int, map[string]string) ([]vectordb.Result, error) {
	return f.results, f.err
}

func (f *fakeStore) Stats(context.Context) (vectordb.Stats, error) {
	return vectordb.Stats{DocumentCount: len(f.results)}, nil
}

func (f *fakeStore) Reset(context.Context) error { return nil }
func (f *fakeStore) Close() error                { return nil }

// failingGenerator always errors so the rule-based path must take over.
type failingGenerator struct{ calls int }

func (g *failingGenerator) Generate(context.Context, string, string) (string, error) {
	g.calls++
	return "", errors.New("model unreachable")
}

type cannedGenerator struct{ answer string }

func (g *cannedGenerator) Generate(context.Context, string, string) (string, error) {
	return g.answer, nil
}

func triageResult(distance float64) vectordb.Result {
	return vectordb.Result{
		Content: "Symptoms: chest pain\nUrgency Level: URGENT\nRecommended Department: Cardiology",
		Metadata: map[string]string{
			"type":           models.DocTypeTriage,
			"urgency_level":  "URGENT",
			"department":     "Cardiology",
			"priority":       "2",
			"estimated_wait": "30-60 minutes",
			"symptoms":       "chest pain",
			"warning_signs":  "radiating pain",
		},
		Distance: distance,
	}
}

func TestAnswerEmptyRetrievalFallback(t *testing.T) {
	p := NewPipeline(&fakeStore{}, nil, testHospital, 5)

	response, err := p.Answer(context.Background(), "anything")
	require.NoError(t, err)

	assert.Equal(t, 0.1, response.Confidence)
	assert.Empty(t, response.Sources)
	assert.Nil(t, response.Triage)
	require.Len(t, response.NextSteps, 1)
	assert.Contains(t, response.Answer, testHospital.Phone)
}

func TestAnswerConfidenceFromDistances(t *testing.T) {
	store := &fakeStore{results: []vectordb.Result{
		{Content: "doc one", Metadata: map[string]string{"type": models.DocTypeFAQ}, Distance: 0.2},
		{Content: "doc two", Metadata: map[string]string{"type": models.DocTypeFAQ}, Distance: 0.4},
	}}
	p := NewPipeline(store, nil, testHospital, 5)

	response, err := p.Answer(context.Background(), "no verbatim match here")
	require.NoError(t, err)
	assert.Equal(t, 0.7, response.Confidence)
}

func TestAnswerConfidenceVerbatimBoost(t *testing.T) {
	store := &fakeStore{results: []vectordb.Result{
		{Content: "We treat chest pain in the cardiology department", Metadata: map[string]string{"type": models.DocTypeDepartment}, Distance: 0.3},
	}}
	p := NewPipeline(store, nil, testHospital, 5)

	response, err := p.Answer(context.Background(), "Chest Pain")
	require.NoError(t, err)
	assert.Equal(t, 0.9, response.Confidence)
}

func TestAnswerConfidenceBounds(t *testing.T) {
	store := &fakeStore{results: []vectordb.Result{
		{Content: "far away document", Metadata: map[string]string{"type": models.DocTypeFAQ}, Distance: 1.9},
	}}
	p := NewPipeline(store, nil, testHospital, 5)

	response, err := p.Answer(context.Background(), "unrelated")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, response.Confidence, 0.0)
	assert.LessOrEqual(t, response.Confidence, 1.0)
	assert.Equal(t, 0.1, response.Confidence)
}

func TestAnswerSourcePreviews(t *testing.T) {
	long := strings.Repeat("x", 250)
	store := &fakeStore{results: []vectordb.Result{
		{Content: long, Metadata: map[string]string{"type": models.DocTypeFAQ}, Distance: 0.25},
		{Content: "short", Metadata: map[string]string{}, Distance: 0.5},
	}}
	p := NewPipeline(store, nil, testHospital, 5)

	response, err := p.Answer(context.Background(), "whatever")
	require.NoError(t, err)
	require.Len(t, response.Sources, 2)

	assert.Equal(t, strings.Repeat("x", 200)+"...", response.Sources[0].ContentPreview)
	assert.Equal(t, 0.75, response.Sources[0].RelevanceScore)
	assert.Equal(t, "short", response.Sources[1].ContentPreview)
	assert.Equal(t, "unknown", response.Sources[1].Type)
}

func TestAnswerExtractsTriageHint(t *testing.T) {
	store := &fakeStore{results: []vectordb.Result{
		{Content: "faq", Metadata: map[string]string{"type": models.DocTypeFAQ}, Distance: 0.1},
		triageResult(0.2),
	}}
	p := NewPipeline(store, nil, testHospital, 5)

	response, err := p.Answer(context.Background(), "my chest hurts")
	require.NoError(t, err)
	require.NotNil(t, response.Triage)
	assert.Equal(t, "URGENT", response.Triage.UrgencyLevel)
	assert.Equal(t, "Cardiology", response.Triage.Department)
	assert.Equal(t, 2, response.Triage.Priority)
	assert.Equal(t, "30-60 minutes", response.Triage.EstimatedWait)
}

func TestAnswerNextStepsByUrgency(t *testing.T) {
	cases := []struct {
		urgency string
		want    string
	}{
		{"EMERGENCY", "911"},
		{"URGENT", "same-day"},
		{"ROUTINE", "Schedule appointment"},
	}
	for _, tc := range cases {
		result := triageResult(0.2)
		result.Metadata["urgency_level"] = tc.urgency
		p := NewPipeline(&fakeStore{results: []vectordb.Result{result}}, nil, testHospital, 5)

		response, err := p.Answer(context.Background(), "symptoms")
		require.NoError(t, err)
		assert.Contains(t, strings.Join(response.NextSteps, " "), tc.want, "urgency %s", tc.urgency)
	}
}

func TestAnswerGenericNextStepsWithoutHint(t *testing.T) {
	store := &fakeStore{results: []vectordb.Result{
		{Content: "faq", Metadata: map[string]string{"type": models.DocTypeFAQ}, Distance: 0.1},
	}}
	p := NewPipeline(store, nil, testHospital, 5)

	response, err := p.Answer(context.Background(), "parking")
	require.NoError(t, err)
	assert.Nil(t, response.Triage)
	assert.Contains(t, response.NextSteps[0], "Contact hospital")
}

func TestRuleBasedTemplates(t *testing.T) {
	p := NewPipeline(&fakeStore{}, nil, testHospital, 5)

	cases := []struct {
		query string
		want  string
	}{
		{"I have severe chest pain", "immediate medical attention"},
		{"what is my insurance copay", "insurance plans"},
		{"what documents do I bring to my appointment", "Photo ID, insurance card"},
		{"tell me about the hospital", "contact SuperHealth Medical Center"},
	}
	for _, tc := range cases {
		answer := p.ruleBasedAnswer(tc.query, "CONTEXT")
		assert.Contains(t, answer, tc.want, "query %q", tc.query)
		assert.Contains(t, answer, "not medical advice", "query %q", tc.query)
	}
}

func TestGeneratorFailureDegradesSilently(t *testing.T) {
	gen := &failingGenerator{}
	store := &fakeStore{results: []vectordb.Result{
		{Content: "faq content", Metadata: map[string]string{"type": models.DocTypeFAQ}, Distance: 0.2},
	}}
	p := NewPipeline(store, gen, testHospital, 5)

	response, err := p.Answer(context.Background(), "what documents do I need for my visit")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, response.Answer, "not medical advice")
}

func TestGeneratorAnswerUsedWhenAvailable(t *testing.T) {
	store := &fakeStore{results: []vectordb.Result{
		{Content: "faq content", Metadata: map[string]string{"type": models.DocTypeFAQ}, Distance: 0.2},
	}}
	p := NewPipeline(store, &cannedGenerator{answer: "generated answer"}, testHospital, 5)

	response, err := p.Answer(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "generated answer", response.Answer)
}

func TestFormatContextLabels(t *testing.T) {
	hits := []vectordb.Result{
		{Content: "t", Metadata: map[string]string{"type": models.DocTypeTriage}},
		{Content: "d", Metadata: map[string]string{"type": models.DocTypeDepartment}},
		{Content: "i", Metadata: map[string]string{"type": models.DocTypeInsurance}},
		{Content: "f", Metadata: map[string]string{"type": models.DocTypeFAQ}},
		{Content: "h", Metadata: map[string]string{"type": models.DocTypeHospitalInfo}},
		{Content: "u", Metadata: map[string]string{}},
	}

	block := formatContext(hits)
	assert.Contains(t, block, "TRIAGE INFO: t")
	assert.Contains(t, block, "DEPARTMENT INFO: d")
	assert.Contains(t, block, "INSURANCE INFO: i")
	assert.Contains(t, block, "FAQ: f")
	assert.Contains(t, block, "HOSPITAL INFO: h")
	assert.Contains(t, block, "u")
}
