package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/watchmarket/internal/store"
)

// respondOK writes the standard success envelope.
func respondOK(c *fiber.Ctx, data interface{}, message string) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       data,
		"error_flag": 0,
		"message":    message,
	})
}

// respondNotFound writes the 404 envelope with an empty data field, the
// shape existing clients rely on.
func respondNotFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success":    false,
		"data":       "",
		"error_flag": 1,
		"message":    message,
	})
}

// respondStoreError maps store errors onto the response envelope. Unknown
// errors become a 500 with the raw detail in the error field.
func respondStoreError(c *fiber.Ctx, err error) error {
	var ve *store.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":    false,
			"error_flag": 1,
			"message":    ve.Fields,
		})
	}

	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		return respondNotFound(c, nf.Error())
	}

	if store.IsReference(err) {
		return respondNotFound(c, "Invalid product or user details.")
	}

	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": fiber.Map{"email": "The email has already been taken."},
		})
	case errors.Is(err, store.ErrPasswordMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":    false,
			"error_flag": 1,
			"message":    "Old password does not match",
			"data":       nil,
		})
	case errors.Is(err, store.ErrOTPInvalid), errors.Is(err, store.ErrOTPExpired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":    false,
			"error_flag": 1,
			"message":    err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success":    false,
		"error_flag": 1,
		"message":    "An error occurred while processing your request.",
		"error":      err.Error(),
	})
}
