package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message" example:"job application not found"`
}

// RespondWithError sends a JSON error response.
func RespondWithError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(ErrorResponse{
		Status:  "error",
		Message: message,
	})
}

// RespondWithJSON sends data as the JSON response body, without an envelope.
func RespondWithJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// FormatValidationErrors formats validation errors from validator/v10.
func FormatValidationErrors(err error) []string {
	var errors []string
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element string
			element = fmt.Sprintf("Field '%s' failed on the '%s' tag", err.Field(), err.Tag())
			if err.Param() != "" {
				element = fmt.Sprintf("%s (value: %s)", element, err.Param())
			}
			errors = append(errors, element)
		}
	}
	return errors
}
