package trip

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts trip CRUD under r. Listing and reads work without a
// token (viewer resolves to empty), writes require one.
func RegisterRoutes(r fiber.Router, svc *Service, requireAuth fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		trips, err := svc.ListTrips(c.Context(), viewerID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"trips": trips})
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		t, err := svc.GetTrip(c.Context(), c.Params("id"), viewerID(c))
		if err != nil {
			return mapTripError(err)
		}
		return c.JSON(t)
	})

	r.Post("/", requireAuth, func(c *fiber.Ctx) error {
		var input CreateTripInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		t, err := svc.CreateTrip(c.Context(), viewerID(c), input)
		if err != nil {
			return mapTripError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	})

	r.Post("/:id/lodgings", requireAuth, func(c *fiber.Ctx) error {
		var input LodgingInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		l, err := svc.AddLodging(c.Context(), c.Params("id"), viewerID(c), input)
		if err != nil {
			return mapTripError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	})

	r.Post("/:id/activities", requireAuth, func(c *fiber.Ctx) error {
		var input ActivityInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		a, err := svc.AddActivity(c.Context(), c.Params("id"), viewerID(c), input)
		if err != nil {
			return mapTripError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	})

	r.Delete("/:id", requireAuth, func(c *fiber.Ctx) error {
		if err := svc.DeleteTrip(c.Context(), c.Params("id"), viewerID(c)); err != nil {
			return mapTripError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// RegisterUserRoutes mounts per-user trip listings under r (a /users group).
func RegisterUserRoutes(r fiber.Router, svc *Service, requireAuth fiber.Handler) {
	r.Get("/me/trips", requireAuth, func(c *fiber.Ctx) error {
		me := viewerID(c)
		trips, err := svc.ListUserTrips(c.Context(), me, me)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"trips": trips})
	})

	r.Get("/:id/trips", func(c *fiber.Ctx) error {
		trips, err := svc.ListUserTrips(c.Context(), c.Params("id"), viewerID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"trips": trips})
	})
}

func viewerID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

func mapTripError(err error) error {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "trip not found")
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "not the trip owner")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
