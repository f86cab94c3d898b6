package entity

import "time"

// Company representa una empresa (tenant). Da alcance a la unicidad de SKU y
// código de bodega.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
