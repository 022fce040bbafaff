package validation

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// StoreRoleRequest creates a role
type StoreRoleRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Type        string `json:"type" form:"type"`
}

func (r StoreRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 255)),
	)
}

// UpdateRoleRequest updates a role by id
type UpdateRoleRequest struct {
	ID          uint   `json:"id" form:"id"`
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Type        string `json:"type" form:"type"`
}

func (r UpdateRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
	)
}

// RoleTypeRequest filters roles by type
type RoleTypeRequest struct {
	Type string `json:"type" form:"type"`
}

func (r RoleTypeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required),
	)
}
