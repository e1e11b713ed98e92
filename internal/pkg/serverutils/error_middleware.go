// FILE: internal/pkg/serverutils/error_middleware.go
package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware catches errors that escaped controller handling and
// renders them in the standard envelope. Panics are recovered and reported as
// 500s so one bad request cannot take the server down.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(500, "Internal server error"))
			}
		}()

		if err := ctx.Next(); err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
			}
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, err.Error()))
		}
		return nil
	}
}
