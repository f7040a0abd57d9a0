// Package corpus turns structured hospital records into flat documents
// ready for the knowledge store. One bad or missing source file never
// blocks the rest of the build.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"previsit-triage/internal/models"
)

var titleCaser = cases.Title(language.English)

const (
	faqsFile         = "hospital_faqs.json"
	departmentsFile  = "department_policies.json"
	triageFile       = "triage_mapping.json"
	insuranceFile    = "insurance_rules.json"
	hospitalInfoFile = "hospital_info.json"
)

// Loader reads category-named JSON files from a data directory.
type Loader struct {
	dataDir        string
	supplementsDir string
	chunkSize      int
	chunkOverlap   int
}

func NewLoader(dataDir, supplementsDir string, chunkSize, chunkOverlap int) *Loader {
	return &Loader{
		dataDir:        dataDir,
		supplementsDir: supplementsDir,
		chunkSize:      chunkSize,
		chunkOverlap:   chunkOverlap,
	}
}

// loadJSON decodes one category file into out. A missing file and malformed
// JSON both report false so the category contributes zero documents.
func (l *Loader) loadJSON(filename string, out any) bool {
	path := filepath.Join(l.dataDir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Str("file", filename).Msg("corpus source file not found, skipping category")
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Error().Err(err).Str("file", filename).Msg("corpus source file malformed, skipping category")
		return false
	}
	return true
}

func (l *Loader) LoadFAQs() []models.Document {
	var records []models.FAQRecord
	if !l.loadJSON(faqsFile, &records) {
		return nil
	}
	docs := make([]models.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, r.Document())
	}
	return docs
}

func (l *Loader) LoadDepartments() []models.Document {
	var records []models.DepartmentRecord
	if !l.loadJSON(departmentsFile, &records) {
		return nil
	}
	docs := make([]models.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, r.Document())
	}
	return docs
}

func (l *Loader) LoadTriageRules() []models.Document {
	var records []models.TriageRule
	if !l.loadJSON(triageFile, &records) {
		return nil
	}
	docs := make([]models.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, r.Document())
	}
	return docs
}

func (l *Loader) LoadInsuranceRules() []models.Document {
	var records []models.InsuranceRule
	if !l.loadJSON(insuranceFile, &records) {
		return nil
	}
	docs := make([]models.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, r.Document())
	}
	return docs
}

// LoadHospitalInfo flattens the hospital-info object into one document per
// section: basic info, hours, each policy, and wait-time guidance.
func (l *Loader) LoadHospitalInfo() []models.Document {
	var info models.HospitalInfoFile
	if !l.loadJSON(hospitalInfoFile, &info) {
		return nil
	}

	var docs []models.Document

	basic := info.HospitalInfo
	docs = append(docs, models.Document{
		Content: fmt.Sprintf(`Hospital: %s
Mission: %s
Address: %s
Phone: %s
Emergency Phone: %s
Website: %s`, basic.Name, basic.Mission, basic.Address, basic.Phone, basic.EmergencyPhone, basic.Website),
		Metadata: map[string]string{"type": models.DocTypeHospitalInfo, "category": "basic_info"},
		Source:   "hospital_info",
	})

	if len(info.OperationalHours) > 0 {
		docs = append(docs, models.Document{
			Content:  "Operational Hours:\n" + formatServiceTimes(info.OperationalHours),
			Metadata: map[string]string{"type": models.DocTypeHospitalInfo, "category": "hours"},
			Source:   "hospital_info",
		})
	}

	for _, policy := range info.GeneralPolicies {
		docs = append(docs, models.Document{
			Content: fmt.Sprintf("Policy: %s\nDescription: %s", policy.Title, policy.Description),
			Metadata: map[string]string{
				"type":         models.DocTypeHospitalInfo,
				"category":     "policy",
				"policy_title": policy.Title,
			},
			Source: "hospital_info",
		})
	}

	wt := info.WaitTimeOptimization
	if len(wt.BestTimes) > 0 || len(wt.BusyTimes) > 0 {
		content := "Best Times to Visit:\n" + formatServiceTimes(wt.BestTimes) +
			"\n\nBusy Times to Avoid:\n" + formatServiceTimes(wt.BusyTimes)
		docs = append(docs, models.Document{
			Content:  content,
			Metadata: map[string]string{"type": models.DocTypeHospitalInfo, "category": "wait_times"},
			Source:   "hospital_info",
		})
	}

	return docs
}

func formatServiceTimes(times map[string]string) string {
	lines := make([]string, 0, len(times))
	for _, service := range sortedKeys(times) {
		title := titleCaser.String(strings.ReplaceAll(service, "_", " "))
		lines = append(lines, fmt.Sprintf("%s: %s", title, times[service]))
	}
	return strings.Join(lines, "\n")
}

// LoadAll builds the full corpus across every category plus any
// supplemental policy handouts.
func (l *Loader) LoadAll() []models.Document {
	var docs []models.Document

	docs = append(docs, l.LoadFAQs()...)
	docs = append(docs, l.LoadDepartments()...)
	docs = append(docs, l.LoadTriageRules()...)
	docs = append(docs, l.LoadInsuranceRules()...)
	docs = append(docs, l.LoadHospitalInfo()...)
	docs = append(docs, l.LoadSupplemental()...)

	log.Info().Int("documents", len(docs)).Msg("corpus build complete")
	return docs
}
