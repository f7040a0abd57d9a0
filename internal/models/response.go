package models

// Source describes one retrieved document backing an answer.
type Source struct {
	Type           string
	ContentPreview string
	RelevanceScore float64
}

// TriageHint is the structured triage signal extracted from the first
// triage-typed document in a retrieval set.
type TriageHint struct {
	UrgencyLevel  string
	Department    string
	Priority      int
	EstimatedWait string
	Symptoms      string
	WarningSigns  string
}

// RAGResponse is the transient result of one free-text query. It is built
// fresh per query and never persisted.
type RAGResponse struct {
	Answer     string
	Sources    []Source
	Confidence float64
	Triage     *TriageHint
	NextSteps  []string
}
