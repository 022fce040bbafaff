package validation

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// PersonIndexRequest optionally filters people by business
type PersonIndexRequest struct {
	BusinessID *uint `json:"business_id" form:"business_id"`
}

func (r PersonIndexRequest) Validate() error {
	return nil
}

// StorePersonRequest creates a person together with its account and,
// when business_id is present, an affiliation.
type StorePersonRequest struct {
	User       string `json:"user" form:"user"`
	Name       string `json:"name" form:"name"`
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	CPF        string `json:"cpf" form:"cpf"`
	Phone      string `json:"phone" form:"phone"`
	Address    string `json:"address" form:"address"`
	BusinessID *uint  `json:"business_id" form:"business_id"`
	RoleID     *uint  `json:"role_id" form:"role_id"`
	Pix        string `json:"pix" form:"pix"`
	Type       string `json:"type" form:"type"`
	NamePix    string `json:"namePix" form:"namePix"`
	Bank       string `json:"bank" form:"bank"`
	Workplace  *int   `json:"workplace" form:"workplace"`
}

func (r StorePersonRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 255)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 255)),
		validation.Field(&r.CPF, validation.Required),
	)
}

// UpdatePersonRequest updates a person by id
type UpdatePersonRequest struct {
	ID      uint    `json:"id" form:"id"`
	Name    *string `json:"name" form:"name"`
	Email   *string `json:"email" form:"email"`
	CPF     *string `json:"cpf" form:"cpf"`
	Phone   *string `json:"phone" form:"phone"`
	Address *string `json:"address" form:"address"`
}

func (r UpdatePersonRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
	)
}
