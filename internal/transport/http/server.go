package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "tcg-backend/internal/app"
	"tcg-backend/internal/auth"
	"tcg-backend/internal/bootstrap"
	"tcg-backend/internal/repository"
	"tcg-backend/internal/transport/http/docs"
	"tcg-backend/internal/transport/http/handler"
	"tcg-backend/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), middleware.Recovery(), middleware.CORS(app.Config.App.AllowedOrigins))

	authenticator := auth.NewAuthenticator(app.Config.Auth.JWTSecret)
	requireAuth := middleware.AuthJWT(authenticator)

	userRepo := repository.NewUserRepository(app.DB)
	cardRepo := repository.NewCardRepository(app.DB)
	deckRepo := repository.NewDeckRepository(app.DB)

	authService := appsvc.NewAuthService(userRepo, appsvc.AuthServiceConfig{
		JWTSecret:   app.Config.Auth.JWTSecret,
		RegisterTTL: app.Config.RegisterTokenTTL(),
		LoginTTL:    app.Config.LoginTokenTTL(),
		BcryptCost:  app.Config.Auth.BcryptCost,
	})
	cardService := appsvc.NewCardService(cardRepo)
	deckService := appsvc.NewDeckService(deckRepo, cardRepo, app.Publisher)

	var tracker handler.PresenceTracker
	var refreshEvery time.Duration
	if app.Presence != nil {
		tracker = app.Presence
		refreshEvery = app.Presence.TTL() / 2
	}

	healthHandler := handler.NewHealthHandler(handler.HealthDeps{
		Name:      app.Config.App.Name,
		Env:       app.Config.App.Env,
		StartedAt: app.StartedAt,
		DB:        app.DB,
		Redis:     app.Redis,
		MQConn:    app.MQConn,
	})
	authHandler := handler.NewAuthHandler(authService)
	cardHandler := handler.NewCardHandler(cardService)
	deckHandler := handler.NewDeckHandler(deckService)
	presenceHandler := handler.NewPresenceHandler(authenticator, tracker, refreshEvery, app.Config.App.AllowedOrigins)

	router.StaticFile("/", app.Config.App.WebDir+"/index.html")
	router.GET("/healthz", healthHandler.Readiness)
	docs.Register(router)
	router.GET("/ws", presenceHandler.Connect)

	api := router.Group("/api")
	api.GET("/health", healthHandler.Liveness)

	authGroup := api.Group("/auth")
	authGroup.POST("/sign-up", authHandler.SignUp)
	authGroup.POST("/sign-in", authHandler.SignIn)

	if app.Config.Auth.ProtectCards {
		api.GET("/cards", requireAuth, cardHandler.List)
	} else {
		api.GET("/cards", cardHandler.List)
	}

	deckGroup := api.Group("/decks")
	deckGroup.Use(requireAuth)
	deckGroup.POST("", deckHandler.Create)
	deckGroup.GET("/mine", deckHandler.ListMine)
	deckGroup.GET("/:id", deckHandler.Get)
	deckGroup.PATCH("/:id", deckHandler.Update)
	deckGroup.DELETE("/:id", deckHandler.Delete)

	api.GET("/presence/online", requireAuth, presenceHandler.Online)

	return router
}
