package validation

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// StoreRecipeRequest creates a recipe for a business
type StoreRecipeRequest struct {
	BusinessID  uint   `json:"business_id" form:"business_id"`
	PersonID    uint   `json:"person_id" form:"person_id"`
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

func (r StoreRecipeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BusinessID, validation.Required),
		validation.Field(&r.PersonID, validation.Required),
		validation.Field(&r.Name, validation.Required, validation.Length(2, 255)),
	)
}

// UpdateRecipeRequest updates a recipe by id
type UpdateRecipeRequest struct {
	ID          uint    `json:"id" form:"id"`
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
}

func (r UpdateRecipeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
	)
}
