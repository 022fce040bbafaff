package validation

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// StoreBusinessRequest creates a business node
type StoreBusinessRequest struct {
	Name     string `json:"name" form:"name"`
	CNPJ     string `json:"cnpj" form:"cnpj"`
	Phone    string `json:"phone" form:"phone"`
	Address  string `json:"address" form:"address"`
	ParentID *uint  `json:"parent_id" form:"parent_id"`
}

func (r StoreBusinessRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.CNPJ, validation.Required),
	)
}

// UpdateBusinessRequest updates a business by id; zero-valued fields keep their value
type UpdateBusinessRequest struct {
	ID       uint    `json:"id" form:"id"`
	Name     *string `json:"name" form:"name"`
	CNPJ     *string `json:"cnpj" form:"cnpj"`
	Phone    *string `json:"phone" form:"phone"`
	Address  *string `json:"address" form:"address"`
	ParentID *uint   `json:"parent_id" form:"parent_id"`
}

func (r UpdateBusinessRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
	)
}

// StoreBusinessPersonRequest affiliates a person to a business
type StoreBusinessPersonRequest struct {
	BusinessID uint   `json:"business_id" form:"business_id"`
	PersonID   uint   `json:"person_id" form:"person_id"`
	RoleID     uint   `json:"role_id" form:"role_id"`
	Active     *int   `json:"active" form:"active"`
	Pix        string `json:"pix" form:"pix"`
	Type       string `json:"type" form:"type"`
	Name       string `json:"name" form:"name"`
	Bank       string `json:"bank" form:"bank"`
	Workplace  *int   `json:"workplace" form:"workplace"`
}

func (r StoreBusinessPersonRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BusinessID, validation.Required),
		validation.Field(&r.PersonID, validation.Required),
		validation.Field(&r.RoleID, validation.Required),
	)
}

// UpdateBusinessPersonRequest updates an affiliation by id
type UpdateBusinessPersonRequest struct {
	ID         uint    `json:"id" form:"id"`
	BusinessID *uint   `json:"business_id" form:"business_id"`
	PersonID   *uint   `json:"person_id" form:"person_id"`
	RoleID     *uint   `json:"role_id" form:"role_id"`
	Active     *int    `json:"active" form:"active"`
	Pix        *string `json:"pix" form:"pix"`
	Type       *string `json:"type" form:"type"`
	Name       *string `json:"name" form:"name"`
	Bank       *string `json:"bank" form:"bank"`
	Workplace  *int    `json:"workplace" form:"workplace"`
}

func (r UpdateBusinessPersonRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
	)
}
