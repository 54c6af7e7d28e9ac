package plan

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the plans endpoints under a /users group; every
// route requires a token.
func RegisterRoutes(r fiber.Router, svc *Service, requireAuth fiber.Handler) {
	r.Get("/me/plans", requireAuth, func(c *fiber.Ctx) error {
		plans, err := svc.UserPlans(c.Context(), c.Locals("user_id").(string))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(plans)
	})

	r.Post("/me/plans/activities/:id", requireAuth, func(c *fiber.Ctx) error {
		plans, err := svc.ToggleActivity(c.Context(), c.Locals("user_id").(string), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(plans)
	})

	r.Post("/me/plans/lodgings/:id", requireAuth, func(c *fiber.Ctx) error {
		plans, err := svc.ToggleLodging(c.Context(), c.Locals("user_id").(string), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(plans)
	})
}
