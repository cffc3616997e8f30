package repositories

import (
	"fmt"

	"proveedores/internal/models"

	"gorm.io/gorm"
)

// GORMSupplierRepository is a GORM implementation of SupplierRepository.
type GORMSupplierRepository struct {
	db *gorm.DB
}

// NewGORMSupplierRepository creates a new instance of GORMSupplierRepository.
func NewGORMSupplierRepository(db *gorm.DB) *GORMSupplierRepository {
	return &GORMSupplierRepository{
		db: db,
	}
}

// Create inserts a new record into the history table. It never updates an
// existing row; each call is its own auto-committed insert.
func (r *GORMSupplierRepository) Create(record *models.SupplierRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create supplier record: %w", err)
	}
	return nil
}

// LatestPerTaxID collapses the history to the most recent row per tax id in
// a single read-only query. Within a tax id the winner is the row with the
// maximum RegisteredAt; identical timestamps fall back to the highest id.
func (r *GORMSupplierRepository) LatestPerTaxID() ([]models.SupplierRecord, error) {
	var records []models.SupplierRecord
	err := r.db.Raw(`
		SELECT p.* FROM proveedores p
		WHERE p.id = (
			SELECT p2.id FROM proveedores p2
			WHERE p2.tax_id = p.tax_id
			ORDER BY p2.registered_at DESC, p2.id DESC
			LIMIT 1
		)
		ORDER BY p.tax_id ASC`).Scan(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest supplier versions: %w", err)
	}
	return records, nil
}

// CountByTaxID counts existing rows for a tax id.
func (r *GORMSupplierRepository) CountByTaxID(taxID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.SupplierRecord{}).Where("tax_id = ?", taxID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count records for tax id %s: %w", taxID, err)
	}
	return count, nil
}

// GetAll retrieves the full submission history, oldest first.
func (r *GORMSupplierRepository) GetAll() ([]models.SupplierRecord, error) {
	var records []models.SupplierRecord
	if err := r.db.Order("registered_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get supplier history: %w", err)
	}
	return records, nil
}
