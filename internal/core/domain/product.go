package domain

import "time"

// Product is the catalogue entity stock adjustments act on.
type Product struct {
	ID           string      `json:"id"`
	SKU          string      `json:"sku"`
	Name         string      `json:"name"`
	Category     string      `json:"category,omitempty"`
	Quantity     int         `json:"quantity"`
	ReorderLevel int         `json:"reorder_level,omitempty"`
	Department   *Department `json:"department,omitempty"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ResourceDepartmentID satisfies DepartmentScoped. A product without a
// department assignment reports "".
func (p *Product) ResourceDepartmentID() string {
	if p == nil || p.Department == nil {
		return ""
	}
	return p.Department.ID
}
