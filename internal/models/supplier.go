package models

import "time"

// DocumentType enumerates the accepted identity document kinds.
type DocumentType string

const (
	DocumentTypeNationalID DocumentType = "national_id"
	DocumentTypeTaxID      DocumentType = "tax_id"
	DocumentTypePassport   DocumentType = "passport"
)

// Valid reports whether the value is one of the known document types.
func (d DocumentType) Valid() bool {
	switch d {
	case DocumentTypeNationalID, DocumentTypeTaxID, DocumentTypePassport:
		return true
	}
	return false
}

// SupplierRecord represents one submitted supplier registration.
// The table is append-only history: every successful submission inserts a
// new row, and the current state of a supplier is the row with the maximum
// RegisteredAt for its TaxID. Rows are never updated or deleted.
//
// TaxID and DocumentNumber are kept as digit strings, never parsed to a
// numeric type, so leading zeros survive storage and export.
type SupplierRecord struct {
	ID                  uint         `json:"id" gorm:"primaryKey"`
	CompanyName         string       `json:"company_name" gorm:"type:varchar(255);not null" validate:"required"`
	TaxID               string       `json:"tax_id" gorm:"type:varchar(50);index;not null" validate:"required"`
	LegalRepresentative string       `json:"legal_representative" gorm:"type:varchar(255);not null" validate:"required"`
	DocumentType        DocumentType `json:"document_type" gorm:"type:varchar(20);not null" validate:"required"`
	DocumentNumber      string       `json:"document_number" gorm:"type:varchar(50);not null" validate:"required"`
	Email               string       `json:"email" gorm:"type:varchar(255);not null" validate:"required,email"`
	RegisteredAt        time.Time    `json:"registered_at" gorm:"autoCreateTime;index"`
}

// TableName keeps the historical table name used by the intake form.
func (SupplierRecord) TableName() string {
	return "proveedores"
}
