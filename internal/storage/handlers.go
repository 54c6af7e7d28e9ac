package storage

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, requireAuth fiber.Handler) {
	r.Post("/images", requireAuth, func(c *fiber.Ctx) error {
		header, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file is required")
		}

		url, err := svc.SaveImage(c.Context(), c.Locals("user_id").(string), c.FormValue("folder"), header)
		if err != nil {
			if errors.Is(err, ErrInvalidImage) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
	})
}
