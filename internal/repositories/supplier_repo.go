package repositories

import (
	"proveedores/internal/models"
)

// SupplierRepository defines the interface for supplier history data access.
//
// The backing table is append-only: Create always inserts a new row, even
// when rows with the same tax id already exist. There is no update and no
// delete.
type SupplierRepository interface {
	// Create inserts one record and assigns its RegisteredAt timestamp.
	Create(record *models.SupplierRecord) error
	// LatestPerTaxID returns the most recent record per distinct tax id,
	// ordered by tax id ascending. Ties on RegisteredAt are broken by the
	// highest row id.
	LatestPerTaxID() ([]models.SupplierRecord, error)
	// CountByTaxID returns how many rows already exist for a tax id. The
	// count is advisory only, used to word the submission response.
	CountByTaxID(taxID string) (int64, error)
	// GetAll returns the full submission history, oldest first.
	GetAll() ([]models.SupplierRecord, error)
}
