package handlers

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tokobuku/internal/apperror"
)

var validate = validator.New()

// parseBody decodes the request body into v. An empty body leaves v at its
// zero value.
func parseBody(c *fiber.Ctx, v interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(v); err != nil {
		return apperror.BadRequest(err)
	}
	return nil
}

// validateStruct runs the validate tags of v and reports failures per field.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Namespace()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return apperror.InvalidFields(fields)
}

// message is the body of responses that carry only a confirmation.
func message(text string) fiber.Map {
	return fiber.Map{"message": text}
}
