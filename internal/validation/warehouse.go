package validation

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// CursorRequest paginates a business-filtered collection forward by id
type CursorRequest struct {
	BusinessID uint  `json:"business_id" form:"business_id"`
	Cursor     *uint `json:"cursor" form:"cursor"`
	PageSize   int   `json:"pageSize" form:"pageSize"`
}

func (r CursorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BusinessID, validation.Required),
		validation.Field(&r.PageSize, validation.Min(0), validation.Max(100)),
	)
}

// StoreWarehouseRequest creates a stock entry; either ProductID
// references an existing product or Name creates one.
type StoreWarehouseRequest struct {
	ProductID      *uint      `json:"product_id" form:"product_id"`
	Name           string     `json:"name" form:"name"`
	BusinessID     uint       `json:"business_id" form:"business_id"`
	ExpirationDate *time.Time `json:"expirationDate" form:"expirationDate"`
	Description    string     `json:"description" form:"description"`
	Measure        string     `json:"measure" form:"measure"`
	Total          int        `json:"total" form:"total"`
}

func (r StoreWarehouseRequest) Validate() error {
	fields := []*validation.FieldRules{
		validation.Field(&r.BusinessID, validation.Required),
	}
	// Without an existing product reference a name is mandatory so the
	// product can be created in the same transaction.
	if r.ProductID == nil {
		fields = append(fields, validation.Field(&r.Name, validation.Required))
	}
	return validation.ValidateStruct(&r, fields...)
}

// UpdateWarehouseRequest updates a stock entry by id
type UpdateWarehouseRequest struct {
	ID             uint       `json:"id" form:"id"`
	ProductID      *uint      `json:"product_id" form:"product_id"`
	Name           *string    `json:"name" form:"name"`
	BusinessID     *uint      `json:"business_id" form:"business_id"`
	ExpirationDate *time.Time `json:"expirationDate" form:"expirationDate"`
	Description    *string    `json:"description" form:"description"`
	Measure        *string    `json:"measure" form:"measure"`
	Total          *int       `json:"total" form:"total"`
}

func (r UpdateWarehouseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
	)
}
