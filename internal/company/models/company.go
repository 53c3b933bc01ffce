// Package models defines the core domain models for the Company entity,
// including the transfer shapes crossing the service boundary.
package models

// Company defines the domain model for a company entity. The store
// assigns ID on creation; it is immutable afterwards.
type Company struct {
	// ID is the unique identifier for the company, generated by the store.
	ID int64 `gorm:"primaryKey;autoIncrement"`
	// Name is the company's name.
	Name string `gorm:"size:50;not null"`
	// Vat is the company's VAT number.
	Vat string `gorm:"size:20;not null"`
}

// CompanyUpdate represents the fields that can be patched on a Company.
// Pointer types are used to allow partial updates: a nil field is left
// untouched on the stored row.
type CompanyUpdate struct {
	// ID is the unique identifier for the company to update.
	ID int64
	// Name is the new name for the company.
	Name *string
	// Vat is the new VAT number.
	Vat *string
}

// CompanyDTO is the transfer shape returned to callers.
type CompanyDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Vat  string `json:"vat"`
}

// CreateCompanyDTO is the transfer shape accepted on creation.
// The ID is server-assigned and therefore absent.
type CreateCompanyDTO struct {
	Name string `json:"name"`
	Vat  string `json:"vat"`
}

// ToDTO maps the entity to its transfer shape.
func (c *Company) ToDTO() CompanyDTO {
	return CompanyDTO{
		ID:   c.ID,
		Name: c.Name,
		Vat:  c.Vat,
	}
}
