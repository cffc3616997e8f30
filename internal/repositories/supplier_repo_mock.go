package repositories

import (
	"sort"
	"sync"
	"time"

	"proveedores/internal/models"
)

// MemorySupplierRepository is an in-memory implementation of
// SupplierRepository. It backs the service when no database DSN is
// configured and doubles as a test fixture.
type MemorySupplierRepository struct {
	records []models.SupplierRecord
	nextID  uint
	mu      sync.RWMutex
}

// NewMemorySupplierRepository creates a new instance of MemorySupplierRepository.
func NewMemorySupplierRepository() *MemorySupplierRepository {
	return &MemorySupplierRepository{
		nextID: 1,
	}
}

// Create appends a new record, assigning the id and timestamp.
func (r *MemorySupplierRepository) Create(record *models.SupplierRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = r.nextID
	r.nextID++
	if record.RegisteredAt.IsZero() {
		record.RegisteredAt = time.Now()
	}
	r.records = append(r.records, *record)
	return nil
}

// LatestPerTaxID returns the newest record per tax id, ordered by tax id.
// Ties on the timestamp are broken by the highest id.
func (r *MemorySupplierRepository) LatestPerTaxID() ([]models.SupplierRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := make(map[string]models.SupplierRecord)
	for _, rec := range r.records {
		current, ok := latest[rec.TaxID]
		if !ok || rec.RegisteredAt.After(current.RegisteredAt) ||
			(rec.RegisteredAt.Equal(current.RegisteredAt) && rec.ID > current.ID) {
			latest[rec.TaxID] = rec
		}
	}

	result := make([]models.SupplierRecord, 0, len(latest))
	for _, rec := range latest {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TaxID < result[j].TaxID })
	return result, nil
}

// CountByTaxID counts stored rows for a tax id.
func (r *MemorySupplierRepository) CountByTaxID(taxID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, rec := range r.records {
		if rec.TaxID == taxID {
			count++
		}
	}
	return count, nil
}

// GetAll returns the full history in insertion order.
func (r *MemorySupplierRepository) GetAll() ([]models.SupplierRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.SupplierRecord, len(r.records))
	copy(result, r.records)
	return result, nil
}
