// Package intake runs patient intake sessions and turns the collected
// record into a triage recommendation and visit plan.
package intake

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"previsit-triage/internal/config"
	"previsit-triage/internal/helper"
	"previsit-triage/internal/models"
)

// Responder is the retrieval composer the engine consults on non-emergency
// paths. The emergency fast path never touches it.
type Responder interface {
	Answer(ctx context.Context, query string) (*models.RAGResponse, error)
}

// Engine holds an arena of intake sessions keyed by session id, so multiple
// patients can be in flight without cross-talk. One caller per session is
// assumed; the map itself is guarded for concurrent sessions.
type Engine struct {
	responder Responder
	hospital  config.HospitalConfig

	mu       sync.RWMutex
	sessions map[string]*models.PatientInfo
}

func NewEngine(responder Responder, hospital config.HospitalConfig) *Engine {
	return &Engine{
		responder: responder,
		hospital:  hospital,
		sessions:  map[string]*models.PatientInfo{},
	}
}

// StartIntake opens a fresh session and returns its id.
func (e *Engine) StartIntake() string {
	id, err := helper.GenerateUUID()
	if err != nil {
		id = time.Now().Format("20060102_150405.000000")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions[id] = &models.PatientInfo{
		SessionID: id,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	return id
}

func (e *Engine) session(id string) (*models.PatientInfo, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.sessions[id]
	return p, ok
}

// CollectBasicInfo records demographics. Unlike the other collectors it
// auto-starts a session when the id is empty or unknown, returning the id
// actually used.
func (e *Engine) CollectBasicInfo(sessionID string, age int, gender string) (string, error) {
	p, ok := e.session(sessionID)
	if !ok {
		sessionID = e.StartIntake()
		p, _ = e.session(sessionID)
	}
	p.Age = age
	p.Gender = strings.ToLower(gender)
	return sessionID, nil
}

// CollectSymptoms records the chief complaint and symptom details. Severity
// accepts a qualitative label or numeric text; unparseable input is logged
// and recorded as moderate rather than failing the intake.
func (e *Engine) CollectSymptoms(sessionID, chiefComplaint string, symptoms []string, duration, severity, location string) error {
	p, ok := e.session(sessionID)
	if !ok {
		return models.ErrSessionNotStarted
	}

	p.ChiefComplaint = chiefComplaint
	p.Symptoms = symptoms
	p.SymptomDuration = duration
	p.PainLocation = location

	score, err := models.ParseSeverity(severity)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("unparseable severity, recording as moderate")
		score = models.SeverityDefault
	}
	p.SymptomSeverity = score
	return nil
}

func (e *Engine) CollectMedicalHistory(sessionID string, history, medications, allergies []string) error {
	p, ok := e.session(sessionID)
	if !ok {
		return models.ErrSessionNotStarted
	}
	p.MedicalHistory = history
	p.CurrentMedications = medications
	p.Allergies = allergies
	return nil
}

func (e *Engine) CollectInsuranceInfo(sessionID, provider, memberID string) error {
	p, ok := e.session(sessionID)
	if !ok {
		return models.ErrSessionNotStarted
	}
	p.InsuranceProvider = provider
	p.InsuranceMemberID = memberID
	return nil
}

func (e *Engine) CollectContactInfo(sessionID, phone, email string) error {
	p, ok := e.session(sessionID)
	if !ok {
		return models.ErrSessionNotStarted
	}
	p.PhoneNumber = phone
	p.Email = email
	return nil
}

func (e *Engine) CollectPreferences(sessionID, preferredTime, urgencyPerception string) error {
	p, ok := e.session(sessionID)
	if !ok {
		return models.ErrSessionNotStarted
	}
	p.PreferredTime = preferredTime
	p.UrgencyPerception = urgencyPerception
	return nil
}

// Patient returns the session's current record.
func (e *Engine) Patient(sessionID string) (*models.PatientInfo, error) {
	p, ok := e.session(sessionID)
	if !ok {
		return nil, models.ErrSessionNotStarted
	}
	return p, nil
}

// EndIntake discards the session. Generating a plan does not end the
// session; regeneration recomputes rather than versions.
func (e *Engine) EndIntake(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, sessionID)
}
