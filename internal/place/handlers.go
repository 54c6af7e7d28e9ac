package place

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, client *Client, universities *UniversityClient) {
	r.Get("/places", func(c *fiber.Ctx) error {
		query := c.Query("q")
		mode := c.Query("mode")
		nearLat := queryFloat(c, "near_lat")
		nearLon := queryFloat(c, "near_lon")

		places, err := client.Search(c.Context(), query, mode, nearLat, nearLon)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Could not load places right now.")
		}
		return c.JSON(fiber.Map{"places": places})
	})

	r.Get("/places/reverse", func(c *fiber.Ctx) error {
		lat := queryFloat(c, "lat")
		lon := queryFloat(c, "lon")
		if lat == nil || lon == nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lon are required")
		}

		option, err := client.Reverse(c.Context(), *lat, *lon)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "Could not resolve this pin to an address.")
		}
		return c.JSON(fiber.Map{"place": option})
	})

	r.Get("/universities", func(c *fiber.Ctx) error {
		names, err := universities.Search(c.Context(), c.Query("name"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "University lookup service is unavailable right now.")
		}
		return c.JSON(fiber.Map{"universities": names})
	})
}

func queryFloat(c *fiber.Ctx, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
