// Package rag is the retrieval and response composer: it turns a free-text
// question into a grounded, structured answer.
package rag

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"previsit-triage/internal/config"
	"previsit-triage/internal/models"
	"previsit-triage/internal/vectordb"
)

const previewLen = 200

const systemPrompt = `You are a helpful healthcare pre-visit assistant for %s.
Your role is to help patients prepare for their visits by providing information about:
- Department recommendations based on symptoms
- Insurance coverage and copays
- Required documents and preparation
- Wait times and scheduling
- Hospital policies and procedures

IMPORTANT GUIDELINES:
1. Always include a medical disclaimer: "This is not medical advice. Please consult a qualified healthcare provider."
2. For emergency symptoms, always recommend immediate emergency care or calling 911
3. Be empathetic and helpful while staying within your role
4. Provide specific, actionable information when possible
5. If you don't know something, say so and suggest contacting the hospital directly

Use the provided context to answer questions accurately and helpfully.`

// Generator is the optional generative-text collaborator. Any failure is
// recovered by the rule-based composer and never reaches the caller.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Pipeline composes answers from retrieved knowledge. It is stateless per
// request and safe for concurrent use.
type Pipeline struct {
	store    vectordb.Store
	gen      Generator
	hospital config.HospitalConfig
	topK     int
}

// NewPipeline builds a composer over the store. gen may be nil; the
// rule-based composer then handles every request.
func NewPipeline(store vectordb.Store, gen Generator, hospital config.HospitalConfig, topK int) *Pipeline {
	if topK <= 0 {
		topK = 5
	}
	return &Pipeline{store: store, gen: gen, hospital: hospital, topK: topK}
}

// Answer runs the full pipeline for one query: retrieve, compose, score.
func (p *Pipeline) Answer(ctx context.Context, query string) (*models.RAGResponse, error) {
	log.Debug().Str("query", query).Msg("processing query")

	hits, err := p.store.Query(ctx, query, p.topK, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	if len(hits) == 0 {
		return &models.RAGResponse{
			Answer: fmt.Sprintf("I don't have specific information about that topic in our knowledge base. Please contact %s directly at %s for assistance.",
				p.hospital.Name, p.hospital.Phone),
			Sources:    []models.Source{},
			Confidence: 0.1,
			NextSteps:  []string{"📞 Contact hospital directly for assistance"},
		}, nil
	}

	contextBlock := formatContext(hits)
	hint := extractTriageHint(hits)
	answer := p.composeAnswer(ctx, query, contextBlock)

	return &models.RAGResponse{
		Answer:     answer,
		Sources:    buildSources(hits),
		Confidence: calculateConfidence(hits, query),
		Triage:     hint,
		NextSteps:  p.nextSteps(hint),
	}, nil
}

// formatContext labels each retrieved document with its category so the
// text generator gets structural cues.
func formatContext(hits []vectordb.Result) string {
	parts := make([]string, 0, len(hits))
	for _, hit := range hits {
		switch hit.Metadata["type"] {
		case models.DocTypeTriage:
			parts = append(parts, "TRIAGE INFO: "+hit.Content)
		case models.DocTypeDepartment:
			parts = append(parts, "DEPARTMENT INFO: "+hit.Content)
		case models.DocTypeInsurance:
			parts = append(parts, "INSURANCE INFO: "+hit.Content)
		case models.DocTypeFAQ:
			parts = append(parts, "FAQ: "+hit.Content)
		case models.DocTypeHospitalInfo:
			parts = append(parts, "HOSPITAL INFO: "+hit.Content)
		default:
			parts = append(parts, hit.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// extractTriageHint surfaces the first triage-typed document's structured
// fields. No triage document means no hint.
func extractTriageHint(hits []vectordb.Result) *models.TriageHint {
	for _, hit := range hits {
		if hit.Metadata["type"] != models.DocTypeTriage {
			continue
		}
		priority, _ := strconv.Atoi(hit.Metadata["priority"])
		return &models.TriageHint{
			UrgencyLevel:  hit.Metadata["urgency_level"],
			Department:    hit.Metadata["department"],
			Priority:      priority,
			EstimatedWait: hit.Metadata["estimated_wait"],
			Symptoms:      hit.Metadata["symptoms"],
			WarningSigns:  hit.Metadata["warning_signs"],
		}
	}
	return nil
}

func (p *Pipeline) composeAnswer(ctx context.Context, query, contextBlock string) string {
	if p.gen != nil {
		prompt := fmt.Sprintf(`Context from hospital knowledge base:
%s

Patient Question: %s

Please provide a helpful, accurate response based on the context. Include specific recommendations and next steps when appropriate.`, contextBlock, query)

		answer, err := p.gen.Generate(ctx, fmt.Sprintf(systemPrompt, p.hospital.Name), prompt)
		if err == nil {
			return answer
		}
		log.Debug().Err(err).Msg("generative composer failed, using rule-based response")
	}
	return p.ruleBasedAnswer(query, contextBlock)
}

// ruleBasedAnswer pattern-matches the query into one of four canned
// templates: emergency escalation, insurance info, appointment prep, or a
// generic context echo.
func (p *Pipeline) ruleBasedAnswer(query, contextBlock string) string {
	queryLower := strings.ToLower(query)
	disclaimer := "DISCLAIMER: " + models.MedicalDisclaimer

	emergencyKeywords := []string{"severe", "emergency", "urgent", "chest pain", "difficulty breathing", "unconscious"}
	for _, keyword := range emergencyKeywords {
		if strings.Contains(queryLower, keyword) {
			return fmt.Sprintf(`🚨 IMPORTANT: Based on your symptoms, you may need immediate medical attention.

If you're experiencing severe symptoms, please:
- Call %s for emergency care
- Go to the nearest emergency room
- Don't wait for an appointment

For urgent but non-emergency symptoms, visit our Urgent Care department.

%s`, p.hospital.EmergencyPhone, disclaimer)
		}
	}

	if strings.Contains(queryLower, "insurance") || strings.Contains(queryLower, "copay") || strings.Contains(queryLower, "coverage") {
		return fmt.Sprintf(`Based on our records:

%s

✅ We accept most major insurance plans
💰 Copays vary by plan and service type
📞 Please call to verify your specific plan coverage

%s`, contextBlock, disclaimer)
	}

	if strings.Contains(queryLower, "appointment") || strings.Contains(queryLower, "visit") || strings.Contains(queryLower, "documents") {
		return fmt.Sprintf(`Here's what you need to know:

%s

📋 Required documents: Photo ID, insurance card, medication list
⏰ Arrive 15-30 minutes early for check-in
📞 Call ahead to confirm appointment and requirements

%s`, contextBlock, disclaimer)
	}

	return fmt.Sprintf(`Based on our hospital information:

%s

For specific medical questions or to schedule appointments, please contact %s directly at %s.

%s`, contextBlock, p.hospital.Name, p.hospital.Phone, disclaimer)
}

func (p *Pipeline) nextSteps(hint *models.TriageHint) []string {
	if hint != nil {
		switch strings.ToUpper(hint.UrgencyLevel) {
		case models.UrgencyEmergency:
			return []string{
				"🚨 Seek immediate emergency care or call 911",
				"Go to the nearest emergency room",
				"Bring valid ID and insurance card",
				"Don't drive yourself if experiencing severe symptoms",
			}
		case models.UrgencyUrgent:
			return []string{
				fmt.Sprintf("📞 Schedule same-day appointment with %s", hint.Department),
				"Consider urgent care if department unavailable",
				"Prepare symptom timeline and current medications",
				"Arrive 15-30 minutes early for check-in",
			}
		case models.UrgencyRoutine:
			return []string{
				fmt.Sprintf("📅 Schedule appointment with %s", hint.Department),
				"Gather medical history and current medications",
				"Prepare list of questions for provider",
				"Verify insurance coverage and copay",
			}
		}
	}
	return []string{
		"📞 Contact hospital for specific guidance",
		"Prepare required documents (ID, insurance card)",
		"Review hospital policies and procedures",
		"Plan arrival time based on appointment type",
	}
}

// calculateConfidence maps average retrieval distance into [0.1, 1.0], with
// a boost when the query text appears verbatim in a retrieved document.
func calculateConfidence(hits []vectordb.Result, query string) float64 {
	var total float64
	for _, hit := range hits {
		total += hit.Distance
	}
	confidence := math.Max(0.1, 1.0-total/float64(len(hits)))

	queryLower := strings.ToLower(query)
	for _, hit := range hits {
		if strings.Contains(strings.ToLower(hit.Content), queryLower) {
			confidence = math.Min(1.0, confidence+0.2)
			break
		}
	}
	return round2(confidence)
}

func buildSources(hits []vectordb.Result) []models.Source {
	sources := make([]models.Source, len(hits))
	for i, hit := range hits {
		docType := hit.Metadata["type"]
		if docType == "" {
			docType = "unknown"
		}
		preview := hit.Content
		if len(preview) > previewLen {
			preview = preview[:previewLen] + "..."
		}
		sources[i] = models.Source{
			Type:           docType,
			ContentPreview: preview,
			RelevanceScore: round2(1.0 - hit.Distance),
		}
	}
	return sources
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
