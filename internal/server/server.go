package server

import (
	gojson "github.com/goccy/go-json"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/joeyShea/travel-map/internal/auth"
	"github.com/joeyShea/travel-map/internal/config"
	"github.com/joeyShea/travel-map/internal/geoip"
	"github.com/joeyShea/travel-map/internal/mapview"
	"github.com/joeyShea/travel-map/internal/metrics"
	"github.com/joeyShea/travel-map/internal/place"
	"github.com/joeyShea/travel-map/internal/plan"
	"github.com/joeyShea/travel-map/internal/storage"
	"github.com/joeyShea/travel-map/internal/stream"
	"github.com/joeyShea/travel-map/internal/trip"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Stream  *stream.Hub
	Locator *geoip.Locator
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client, locator *geoip.Locator) *Server {
	app := fiber.New(fiber.Config{
		JSONEncoder: gojson.Marshal,
		JSONDecoder: gojson.Unmarshal,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:     app,
		Cfg:     cfg,
		DB:      db,
		Redis:   redisClient,
		Stream:  stream.NewHub(redisClient),
		Locator: locator,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	requireAuth := auth.JWTMiddleware(s.Cfg.JWTSecret)
	optionalAuth := auth.OptionalJWTMiddleware(s.Cfg.JWTSecret)

	tripSvc := trip.NewService(s.DB, s.Stream)
	planSvc := plan.NewService(s.DB)
	placeClient := place.NewClient(s.Cfg.NominatimURL, s.Redis)
	universities := place.NewUniversityClient()

	authSvc := auth.NewService(s.Cfg.JWTSecret, s.DB)
	auth.RegisterRoutes(s.App.Group("/auth"), authSvc)

	trips := s.App.Group("/trips", optionalAuth)
	trip.RegisterRoutes(trips, tripSvc, requireAuth)

	users := s.App.Group("/users", optionalAuth)
	auth.RegisterUserRoutes(users, authSvc)
	trip.RegisterUserRoutes(users, tripSvc, requireAuth)
	plan.RegisterRoutes(users, planSvc, requireAuth)

	place.RegisterRoutes(s.App.Group("/api"), placeClient, universities)
	storage.RegisterRoutes(s.App.Group("/uploads"), storage.NewService(s.DB, s.Cfg.UploadBaseURL), requireAuth)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)

	var viewports mapview.ViewportStore
	if s.Redis != nil {
		viewports = mapview.NewRedisViewportStore(s.Redis, 0)
	} else {
		viewports = mapview.NewMemoryViewportStore()
	}
	mapview.RegisterRoutes(s.App.Group("/map"), &mapview.SessionDeps{
		Trips:     trip.NewMapSource(tripSvc),
		Viewports: viewports,
		Feed:      stream.NewFeedSubscriber(s.Stream, trip.FeedTopic),
		LocateIP:  s.Locator.Locate,
	})
}
