package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func uuidParam(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

var (
	errInvalidLimit  = errors.New("invalid limit")
	errInvalidOffset = errors.New("invalid offset")
)

// pageQuery reads limit and offset. Range clamping is left to the services.
func pageQuery(c *fiber.Ctx) (limit, offset int, err error) {
	if limit, err = strconv.Atoi(c.Query("limit", "10")); err != nil {
		return 0, 0, errInvalidLimit
	}
	if offset, err = strconv.Atoi(c.Query("offset", "0")); err != nil {
		return 0, 0, errInvalidOffset
	}
	return limit, offset, nil
}

func invalidPage(c *fiber.Ctx, err error) error {
	code := "INVALID_OFFSET"
	if errors.Is(err, errInvalidLimit) {
		code = "INVALID_LIMIT"
	}
	return writeError(c, fiber.StatusBadRequest, code, err.Error())
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

func invalidBody(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
}
