package intake

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"previsit-triage/internal/models"
)

const contactInsurance = "Contact insurance for details"

// lookupInsurance asks the composer about the provider's coverage. Every
// copay defaults to a contact-insurance note; only an emergency copay
// parsed out of a provider-matching insurance document overrides it.
func (e *Engine) lookupInsurance(ctx context.Context, provider string) models.InsuranceCoverage {
	if provider == "" {
		return models.InsuranceCoverage{}
	}

	coverage := models.InsuranceCoverage{
		Provider:         provider,
		Accepted:         true,
		EmergencyCopay:   contactInsurance,
		UrgentCareCopay:  contactInsurance,
		SpecialistCopay:  contactInsurance,
		PrimaryCareCopay: contactInsurance,
	}

	response, err := e.responder.Answer(ctx, "insurance coverage copay "+provider)
	if err != nil {
		log.Warn().Err(err).Str("provider", provider).Msg("insurance lookup failed, using defaults")
		return coverage
	}
	coverage.Notes = response.Answer

	providerLower := strings.ToLower(provider)
	for _, source := range response.Sources {
		if source.Type != models.DocTypeInsurance {
			continue
		}
		if !strings.Contains(strings.ToLower(source.ContentPreview), providerLower) {
			continue
		}
		if copay, ok := parseCopayLine(source.ContentPreview, "Emergency Copay:"); ok {
			coverage.EmergencyCopay = copay
		}
	}

	return coverage
}

// parseCopayLine pulls the value following the label up to the end of its
// line. A miss is not an error; the caller keeps the default text.
func parseCopayLine(content, label string) (string, bool) {
	_, rest, found := strings.Cut(content, label)
	if !found {
		return "", false
	}
	value, _, _ := strings.Cut(rest, "\n")
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}
