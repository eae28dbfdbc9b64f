package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"lingohub_backend/internal/pkg/env"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parsePaging reads offset/limit query params with sane bounds.
func parsePaging(c *fiber.Ctx) (offset, limit int) {
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageSize)))
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return offset, limit
}

// internalErrorMessage hides storage error text outside dev mode.
func internalErrorMessage(err error, fallback string) string {
	if env.IsDev() && err != nil {
		return err.Error()
	}
	return fallback
}
