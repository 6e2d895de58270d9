package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/melodia/music-catalog-api/internal/api/handler"
	"github.com/melodia/music-catalog-api/internal/api/middleware"
	"github.com/melodia/music-catalog-api/internal/core/domain"
	"github.com/melodia/music-catalog-api/internal/core/ports"
	"github.com/melodia/music-catalog-api/internal/core/service"
	mongorepo "github.com/melodia/music-catalog-api/internal/infrastructure/db/mongo"
	redisstore "github.com/melodia/music-catalog-api/internal/infrastructure/db/redis"
)

// Deps are the externally constructed dependencies the router wires into
// handlers. Everything else (repositories, services) is built here.
type Deps struct {
	Mongo    *mongo.Database
	Redis    *redis.Client
	Codec    ports.TokenCodec
	Assets   ports.AssetStorage
	Cleanup  ports.AssetCleanupQueue
	TokenTTL time.Duration
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("catalog"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(deps.Mongo)
	artistRepo := mongorepo.NewArtistRepository(deps.Mongo)
	albumRepo := mongorepo.NewAlbumRepository(deps.Mongo)
	songRepo := mongorepo.NewSongRepository(deps.Mongo)

	sessionStore := redisstore.NewSessionStore(deps.Redis, deps.TokenTTL)
	sessionManager := service.NewSessionManager(userRepo, deps.Codec, sessionStore, deps.TokenTTL, deps.Logger)

	userService := service.NewUserService(userRepo, deps.Assets, deps.Logger)
	artistService := service.NewArtistService(artistRepo, albumRepo, songRepo, deps.Assets, deps.Cleanup, deps.Logger)
	albumService := service.NewAlbumService(albumRepo, artistRepo, songRepo, deps.Assets, deps.Cleanup, deps.Logger)
	songService := service.NewSongService(songRepo, albumRepo, deps.Assets, deps.Logger)

	authHandler := handler.NewAuthHandler(sessionManager, userService)
	userHandler := handler.NewUserHandler(userService)
	artistHandler := handler.NewArtistHandler(artistService)
	albumHandler := handler.NewAlbumHandler(albumService)
	songHandler := handler.NewSongHandler(songService)

	authRequired := middleware.Auth(sessionManager)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- API routes ---
	apiGroup := e.Group("/api")

	users := apiGroup.Group("/users")
	users.POST("", userHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/logout", authHandler.Logout, authRequired)
	users.GET("/whoami", authHandler.Whoami, authRequired)
	users.GET("", userHandler.List, authRequired, adminOnly)
	users.GET("/:userId", userHandler.Get, authRequired)
	users.PUT("/:userId", userHandler.Update, authRequired)

	artists := apiGroup.Group("/artists", authRequired)
	artists.GET("", artistHandler.List)
	artists.GET("/:artistId", artistHandler.Get)
	artists.POST("", artistHandler.Create, adminOnly)
	artists.PUT("/:artistId", artistHandler.Update, adminOnly)
	artists.DELETE("/:artistId", artistHandler.Delete, adminOnly)

	albums := apiGroup.Group("/albums", authRequired)
	albums.GET("", albumHandler.Search)
	albums.GET("/:albumId", albumHandler.Get)
	albums.GET("/:albumId/songs", songHandler.ListByAlbum)
	albums.POST("", albumHandler.Create, adminOnly)
	albums.PUT("/:albumId", albumHandler.Update, adminOnly)
	albums.DELETE("/:albumId", albumHandler.Delete, adminOnly)

	songs := apiGroup.Group("/songs", authRequired)
	songs.GET("/:songId", songHandler.Get)
	songs.POST("", songHandler.Upload, adminOnly, echomiddleware.BodyLimit("10M"))
	songs.PUT("/:songId", songHandler.Update, adminOnly)
	songs.DELETE("/:songId", songHandler.Delete, adminOnly)

	return e
}
