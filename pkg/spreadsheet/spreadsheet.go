// Package spreadsheet serializes resolved supplier records into downloadable
// files. Digit-string fields (tax_id, document_number) are always written as
// text cells so leading zeros are never lost to numeric coercion.
package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"proveedores/internal/models"

	"github.com/xuri/excelize/v2"
)

// MIME types for the two supported download formats.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv"
)

// Columns is the header row, matching the data-model column names.
var Columns = []string{
	"company_name",
	"tax_id",
	"legal_representative",
	"document_type",
	"document_number",
	"email",
	"registered_at",
}

// row flattens one record into the column order above.
func row(rec models.SupplierRecord) []string {
	return []string{
		rec.CompanyName,
		rec.TaxID,
		rec.LegalRepresentative,
		string(rec.DocumentType),
		rec.DocumentNumber,
		rec.Email,
		rec.RegisteredAt.Format(time.RFC3339),
	}
}

// WriteCSV writes the records as comma-delimited text with a header row.
func WriteCSV(w io.Writer, records []models.SupplierRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("failed to write csv row for tax id %s: %w", rec.TaxID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv output: %w", err)
	}
	return nil
}

// WriteXLSX writes the records as a single-sheet workbook with a header row.
// Every cell is written as a string cell.
func WriteXLSX(w io.Writer, records []models.SupplierRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Proveedores"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, name := range Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellStr(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header cell %s: %w", cell, err)
		}
	}

	for i, rec := range records {
		for col, value := range row(rec) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell for tax id %s: %w", rec.TaxID, err)
			}
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
