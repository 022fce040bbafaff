package handler

import (
	"errors"

	"gorm.io/gorm"

	"github.com/jimmbo89/api-sweetspot/pkg/config"
	"github.com/jimmbo89/api-sweetspot/pkg/mailer"
)

const defaultPageSize = 10

var (
	cfg  *config.Config
	mail mailer.Sender
)

// Init wires the handlers to configuration and outbound email delivery
func Init(c *config.Config, sender mailer.Sender) {
	cfg = c
	mail = sender
}

// isDuplicate reports whether err is a unique-constraint violation.
// Duplicate guards run before writes, but the index is what closes the
// race between two concurrent check-then-insert sequences.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// applyCursor applies forward-only id pagination to a query: rows with
// id greater than the cursor, ascending, capped at pageSize.
func applyCursor(q *gorm.DB, cursor *uint, pageSize int) *gorm.DB {
	if cursor != nil && *cursor > 0 {
		q = q.Where("id > ?", *cursor)
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return q.Order("id ASC").Limit(pageSize)
}
