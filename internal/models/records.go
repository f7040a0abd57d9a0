package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Typed corpus records, one variant per source file category. Each knows how
// to render itself into a Document; the string-keyed metadata map only
// appears at this storage boundary.

// FAQRecord is one entry of hospital_faqs.json.
type FAQRecord struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

func (f FAQRecord) Document() Document {
	category := f.Category
	if category == "" {
		category = "general"
	}
	return Document{
		Content: fmt.Sprintf("Q: %s\nA: %s", f.Question, f.Answer),
		Metadata: map[string]string{
			"type":     DocTypeFAQ,
			"category": category,
			"keywords": strings.Join(f.Keywords, ", "),
		},
		Source: "hospital_faqs",
	}
}

// DepartmentRecord is one entry of department_policies.json.
type DepartmentRecord struct {
	Department        string   `json:"department"`
	Description       string   `json:"description"`
	TypicalConditions []string `json:"typical_conditions"`
	WaitTimeEstimate  string   `json:"wait_time_estimate"`
	RequiredDocuments []string `json:"required_documents"`
	Preparation       string   `json:"preparation"`
	InsuranceNotes    string   `json:"insurance_notes"`
	Contact           string   `json:"contact"`
}

func (d DepartmentRecord) Document() Document {
	content := fmt.Sprintf(`Department: %s
Description: %s
Typical Conditions: %s
Wait Time: %s
Required Documents: %s
Preparation: %s
Insurance Notes: %s
Contact: %s`,
		d.Department, d.Description, strings.Join(d.TypicalConditions, ", "),
		d.WaitTimeEstimate, strings.Join(d.RequiredDocuments, ", "),
		d.Preparation, d.InsuranceNotes, d.Contact)
	return Document{
		Content: content,
		Metadata: map[string]string{
			"type":            DocTypeDepartment,
			"department_name": d.Department,
			"conditions":      strings.Join(d.TypicalConditions, ", "),
			"wait_time":       d.WaitTimeEstimate,
			"contact_type":    d.Contact,
		},
		Source: "department_policies",
	}
}

// TriageRule is one entry of triage_mapping.json.
type TriageRule struct {
	Symptoms              []string `json:"symptoms"`
	UrgencyLevel          string   `json:"urgency_level"`
	RecommendedDepartment string   `json:"recommended_department"`
	TriagePriority        int      `json:"triage_priority"`
	EstimatedWait         string   `json:"estimated_wait"`
	NextSteps             string   `json:"next_steps"`
	WarningSigns          []string `json:"warning_signs"`
}

func (t TriageRule) Document() Document {
	content := fmt.Sprintf(`Symptoms: %s
Urgency Level: %s
Recommended Department: %s
Triage Priority: %d
Estimated Wait: %s
Next Steps: %s
Warning Signs: %s`,
		strings.Join(t.Symptoms, ", "), t.UrgencyLevel, t.RecommendedDepartment,
		t.TriagePriority, t.EstimatedWait, t.NextSteps, strings.Join(t.WarningSigns, ", "))
	return Document{
		Content: content,
		Metadata: map[string]string{
			"type":           DocTypeTriage,
			"urgency_level":  t.UrgencyLevel,
			"department":     t.RecommendedDepartment,
			"priority":       strconv.Itoa(t.TriagePriority),
			"estimated_wait": t.EstimatedWait,
			"symptoms":       strings.Join(t.Symptoms, ", "),
			"warning_signs":  strings.Join(t.WarningSigns, ", "),
		},
		Source: "triage_mapping",
	}
}

// InsuranceRule is one entry of insurance_rules.json.
type InsuranceRule struct {
	InsuranceProvider string   `json:"insurance_provider"`
	Accepted          bool     `json:"accepted"`
	CopayEmergency    string   `json:"copay_emergency"`
	CopayUrgentCare   string   `json:"copay_urgent_care"`
	CopaySpecialist   string   `json:"copay_specialist"`
	CopayPrimaryCare  string   `json:"copay_primary_care"`
	DeductibleInfo    string   `json:"deductible_info"`
	PriorAuthRequired []string `json:"prior_auth_required"`
	CoverageNotes     string   `json:"coverage_notes"`
	VerificationPhone string   `json:"verification_phone"`
}

func (i InsuranceRule) Document() Document {
	content := fmt.Sprintf(`Insurance Provider: %s
Accepted: %t
Emergency Copay: %s
Urgent Care Copay: %s
Specialist Copay: %s
Primary Care Copay: %s
Deductible Info: %s
Prior Authorization Required: %s
Coverage Notes: %s
Verification Phone: %s`,
		i.InsuranceProvider, i.Accepted, i.CopayEmergency, i.CopayUrgentCare,
		i.CopaySpecialist, i.CopayPrimaryCare, i.DeductibleInfo,
		strings.Join(i.PriorAuthRequired, ", "), i.CoverageNotes, i.VerificationPhone)
	return Document{
		Content: content,
		Metadata: map[string]string{
			"type":               DocTypeInsurance,
			"provider":           i.InsuranceProvider,
			"accepted":           strconv.FormatBool(i.Accepted),
			"emergency_copay":    i.CopayEmergency,
			"urgent_care_copay":  i.CopayUrgentCare,
			"specialist_copay":   i.CopaySpecialist,
			"primary_care_copay": i.CopayPrimaryCare,
		},
		Source: "insurance_rules",
	}
}

// HospitalInfoFile is the shape of hospital_info.json.
type HospitalInfoFile struct {
	HospitalInfo struct {
		Name           string `json:"name"`
		Mission        string `json:"mission"`
		Address        string `json:"address"`
		Phone          string `json:"phone"`
		EmergencyPhone string `json:"emergency_phone"`
		Website        string `json:"website"`
	} `json:"hospital_info"`
	OperationalHours map[string]string `json:"operational_hours"`
	GeneralPolicies  []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"general_policies"`
	WaitTimeOptimization struct {
		BestTimes map[string]string `json:"best_times"`
		BusyTimes map[string]string `json:"busy_times"`
	} `json:"wait_time_optimization"`
}
