package models

// Submission carries the six raw form fields of one registration attempt,
// exactly as the operator typed them. Validation and normalization happen
// as a unit in the service layer; nothing here is trusted yet.
type Submission struct {
	CompanyName         string `json:"company_name"`
	TaxID               string `json:"tax_id"`
	LegalRepresentative string `json:"legal_representative"`
	DocumentType        string `json:"document_type"`
	DocumentNumber      string `json:"document_number"`
	Email               string `json:"email"`
}
