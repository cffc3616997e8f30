package services

import (
	"log"
	"regexp"
	"strings"

	"proveedores/internal/models"
	"proveedores/internal/repositories"

	"github.com/google/uuid"
)

// emailPattern is the basic local@domain.tld shape the intake form accepts.
var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// EventPublisher publishes registration events to the message broker.
// Publishing is best-effort; a publish failure never fails a submission.
type EventPublisher interface {
	PublishSupplierRegistered(event map[string]interface{}) error
}

// SubmissionResult describes the outcome of an accepted submission.
type SubmissionResult struct {
	Record models.SupplierRecord `json:"supplier"`
	// Revision is 1 for a first registration, n+1 when n rows for the same
	// tax id already existed. Derived from an advisory pre-count; it affects
	// wording only, never whether the insert happens.
	Revision int64 `json:"revision"`
	// Updated is true when the submission created a new version of an
	// already-known supplier.
	Updated bool `json:"updated"`
	// ClearForm tells the presentation layer to reset its inputs.
	ClearForm bool `json:"reset"`
}

// SupplierService handles validation, persistence and retrieval of supplier
// registrations.
type SupplierService struct {
	repo      repositories.SupplierRepository
	publisher EventPublisher // may be nil
	// strictNumericIDs enables the digit-only checks on tax_id and
	// document_number. On by default.
	strictNumericIDs bool
}

// NewSupplierService creates a new SupplierService.
func NewSupplierService(repo repositories.SupplierRepository, publisher EventPublisher, strictNumericIDs bool) *SupplierService {
	return &SupplierService{
		repo:             repo,
		publisher:        publisher,
		strictNumericIDs: strictNumericIDs,
	}
}

// Submit validates and normalizes one form submission and appends it to the
// history table. It always inserts; a resubmission under a known tax id
// becomes a new version, never an overwrite.
func (s *SupplierService) Submit(sub models.Submission) (*SubmissionResult, error) {
	record, err := s.validate(sub)
	if err != nil {
		return nil, err
	}

	// Advisory pre-count: decides only how the response is worded. The
	// insert below happens regardless, in its own transaction, so a racing
	// writer can at worst skew the message.
	prior, err := s.repo.CountByTaxID(record.TaxID)
	if err != nil {
		log.Printf("Warning: could not count prior versions for tax id %s: %v", record.TaxID, err)
		prior = 0
	}

	if err := s.repo.Create(record); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	s.publishRegistered(record, prior+1)

	return &SubmissionResult{
		Record:    *record,
		Revision:  prior + 1,
		Updated:   prior > 0,
		ClearForm: true,
	}, nil
}

// Latest returns the most recent registration per distinct tax id.
func (s *SupplierService) Latest() ([]models.SupplierRecord, error) {
	return s.repo.LatestPerTaxID()
}

// History returns every stored submission, oldest first.
func (s *SupplierService) History() ([]models.SupplierRecord, error) {
	return s.repo.GetAll()
}

// validate applies the intake rules in order, first failure wins:
// non-empty fields, digit-only identifiers (when strict), email shape,
// known document type. On success it returns the normalized record:
// company name and representative trimmed and upper-cased, everything else
// verbatim so digit strings keep their leading zeros.
func (s *SupplierService) validate(sub models.Submission) (*models.SupplierRecord, error) {
	required := []struct {
		name  string
		value string
	}{
		{"company_name", sub.CompanyName},
		{"tax_id", sub.TaxID},
		{"legal_representative", sub.LegalRepresentative},
		{"document_type", sub.DocumentType},
		{"document_number", sub.DocumentNumber},
		{"email", sub.Email},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, &MissingFieldError{Field: f.name}
		}
	}

	if s.strictNumericIDs {
		if !isDigits(sub.TaxID) {
			return nil, &InvalidFormatError{Field: "tax_id", Reason: "must contain only digits"}
		}
		if !isDigits(sub.DocumentNumber) {
			return nil, &InvalidFormatError{Field: "document_number", Reason: "must contain only digits"}
		}
	}

	if !emailPattern.MatchString(sub.Email) {
		return nil, &InvalidFormatError{Field: "email", Reason: "must look like local@domain.tld"}
	}

	docType := models.DocumentType(sub.DocumentType)
	if !docType.Valid() {
		return nil, &InvalidFormatError{Field: "document_type", Reason: "must be one of national_id, tax_id, passport"}
	}

	return &models.SupplierRecord{
		CompanyName:         strings.ToUpper(strings.TrimSpace(sub.CompanyName)),
		TaxID:               sub.TaxID,
		LegalRepresentative: strings.ToUpper(strings.TrimSpace(sub.LegalRepresentative)),
		DocumentType:        docType,
		DocumentNumber:      sub.DocumentNumber,
		Email:               sub.Email,
	}, nil
}

// isDigits reports whether the value is one or more ASCII digits.
func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// publishRegistered emits a supplier.registered event, if a broker is wired.
func (s *SupplierService) publishRegistered(record *models.SupplierRecord, revision int64) {
	if s.publisher == nil {
		return
	}

	event := map[string]interface{}{
		"event_id":     uuid.New().String(),
		"tax_id":       record.TaxID,
		"company_name": record.CompanyName,
		"revision":     revision,
	}
	if err := s.publisher.PublishSupplierRegistered(event); err != nil {
		log.Printf("Warning: failed to publish registration event for tax id %s: %v", record.TaxID, err)
	}
}
