package models

// Document is a single knowledge-base entry ready for indexing. Metadata
// values are flat strings; list-valued record fields are joined with ", "
// before they get here so the vector store can filter on them.
type Document struct {
	Content  string
	Metadata map[string]string
	Source   string
}

// Document type tags used in metadata under the "type" key.
const (
	DocTypeFAQ          = "faq"
	DocTypeDepartment   = "department"
	DocTypeTriage       = "triage"
	DocTypeInsurance    = "insurance"
	DocTypeHospitalInfo = "hospital_info"
)
