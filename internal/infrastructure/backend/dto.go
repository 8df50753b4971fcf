package backend

import (
	"time"

	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/core/ports"
)

// Wire DTOs mirror the backend's JSON (camel-cased) and are mapped to and
// from domain types at the gateway boundary.

type departmentDTO struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type userDTO struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email,omitempty"`
	Role       string         `json:"role"`
	Department *departmentDTO `json:"department,omitempty"`
	IsActive   bool           `json:"isActive"`
}

func (d *userDTO) toDomain() *domain.Actor {
	if d == nil {
		return nil
	}
	actor := &domain.Actor{
		ID:       d.ID,
		Name:     d.Name,
		Email:    d.Email,
		Role:     d.Role,
		IsActive: d.IsActive,
	}
	if d.Department != nil {
		actor.Department = &domain.Department{ID: d.Department.ID, Name: d.Department.Name}
	}
	return actor
}

type productDTO struct {
	ID           string         `json:"id"`
	SKU          string         `json:"sku"`
	Name         string         `json:"name"`
	Category     string         `json:"category,omitempty"`
	Quantity     int            `json:"quantity"`
	ReorderLevel int            `json:"reorderLevel,omitempty"`
	Department   *departmentDTO `json:"department,omitempty"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (d *productDTO) toDomain() *domain.Product {
	if d == nil {
		return nil
	}
	p := &domain.Product{
		ID:           d.ID,
		SKU:          d.SKU,
		Name:         d.Name,
		Category:     d.Category,
		Quantity:     d.Quantity,
		ReorderLevel: d.ReorderLevel,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Department != nil {
		p.Department = &domain.Department{ID: d.Department.ID, Name: d.Department.Name}
	}
	return p
}

type productInputDTO struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Category     string `json:"category,omitempty"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorderLevel,omitempty"`
	DepartmentID string `json:"departmentId,omitempty"`
}

func toProductInputDTO(input ports.ProductInput) productInputDTO {
	return productInputDTO{
		SKU:          input.SKU,
		Name:         input.Name,
		Category:     input.Category,
		Quantity:     input.Quantity,
		ReorderLevel: input.ReorderLevel,
		DepartmentID: input.DepartmentID,
	}
}
