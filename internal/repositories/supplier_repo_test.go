package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"proveedores/internal/models"
	"proveedores/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB opens a fresh in-memory SQLite database with the schema migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.SupplierRecord{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func record(taxID, company string, registeredAt time.Time) *models.SupplierRecord {
	return &models.SupplierRecord{
		CompanyName:         company,
		TaxID:               taxID,
		LegalRepresentative: "JANE DOE",
		DocumentType:        models.DocumentTypeNationalID,
		DocumentNumber:      "1020304050",
		Email:               "a@b.com",
		RegisteredAt:        registeredAt,
	}
}

func TestGORMSupplierRepository_CreateAlwaysInserts(t *testing.T) {
	repo := repositories.NewGORMSupplierRepository(openTestDB(t))

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, repo.Create(record("900123456", "ACME CORP", base)))
	assert.NoError(t, repo.Create(record("900123456", "ACME CORP SAS", base.Add(time.Hour))))

	// Both rows exist: resubmission appends history, never overwrites.
	history, err := repo.GetAll()
	assert.NoError(t, err)
	assert.Len(t, history, 2)

	count, err := repo.CountByTaxID("900123456")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGORMSupplierRepository_LatestPerTaxID(t *testing.T) {
	repo := repositories.NewGORMSupplierRepository(openTestDB(t))

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, repo.Create(record("900123456", "ACME CORP", base)))
	assert.NoError(t, repo.Create(record("900123456", "ACME CORP SAS", base.Add(time.Hour))))
	assert.NoError(t, repo.Create(record("800999000", "OTHER LTDA", base.Add(time.Minute))))

	latest, err := repo.LatestPerTaxID()
	assert.NoError(t, err)
	assert.Len(t, latest, 2)

	// Ordered by tax id ascending
	assert.Equal(t, "800999000", latest[0].TaxID)
	assert.Equal(t, "OTHER LTDA", latest[0].CompanyName)
	assert.Equal(t, "900123456", latest[1].TaxID)
	// Only the later-timestamped version survives
	assert.Equal(t, "ACME CORP SAS", latest[1].CompanyName)
}

func TestGORMSupplierRepository_LatestPerTaxID_TimestampTie(t *testing.T) {
	repo := repositories.NewGORMSupplierRepository(openTestDB(t))

	// Identical timestamps: the highest row id wins.
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, repo.Create(record("900123456", "FIRST SUBMISSION", ts)))
	assert.NoError(t, repo.Create(record("900123456", "SECOND SUBMISSION", ts)))

	latest, err := repo.LatestPerTaxID()
	assert.NoError(t, err)
	assert.Len(t, latest, 1)
	assert.Equal(t, "SECOND SUBMISSION", latest[0].CompanyName)
}

func TestGORMSupplierRepository_LeadingZerosSurviveRoundTrip(t *testing.T) {
	repo := repositories.NewGORMSupplierRepository(openTestDB(t))

	rec := record("0012345", "ZEROS SA", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	rec.DocumentNumber = "0007777"
	assert.NoError(t, repo.Create(rec))

	latest, err := repo.LatestPerTaxID()
	assert.NoError(t, err)
	assert.Len(t, latest, 1)
	assert.Equal(t, "0012345", latest[0].TaxID)
	assert.Equal(t, "0007777", latest[0].DocumentNumber)
}

func TestMemorySupplierRepository_MatchesGORMBehavior(t *testing.T) {
	repo := repositories.NewMemorySupplierRepository()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.NoError(t, repo.Create(record("900123456", "ACME CORP", base)))
	assert.NoError(t, repo.Create(record("900123456", "ACME CORP SAS", base.Add(time.Hour))))
	assert.NoError(t, repo.Create(record("800999000", "OTHER LTDA", base)))

	latest, err := repo.LatestPerTaxID()
	assert.NoError(t, err)
	assert.Len(t, latest, 2)
	assert.Equal(t, "800999000", latest[0].TaxID)
	assert.Equal(t, "ACME CORP SAS", latest[1].CompanyName)

	count, err := repo.CountByTaxID("900123456")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	history, err := repo.GetAll()
	assert.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestMemorySupplierRepository_TimestampTie(t *testing.T) {
	repo := repositories.NewMemorySupplierRepository()

	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		assert.NoError(t, repo.Create(record("900123456", fmt.Sprintf("SUBMISSION %d", i), ts)))
	}

	latest, err := repo.LatestPerTaxID()
	assert.NoError(t, err)
	assert.Len(t, latest, 1)
	assert.Equal(t, "SUBMISSION 3", latest[0].CompanyName)
}
