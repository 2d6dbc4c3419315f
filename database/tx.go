package database

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FromCtx returns the DB handle a handler should use for this request: the
// per-request transaction installed by middlewares.RequestTx when present,
// else the shared pool.
func FromCtx(c *fiber.Ctx) *gorm.DB {
	if v := c.Locals("tx"); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx
		}
	}
	return DB
}
