package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbeisheim/chessrules-backend/internal/config"
	"github.com/benbeisheim/chessrules-backend/internal/controller"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	log.SetPrefix("chess-server: ")

	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	st, err := store.Open(store.Options{Dir: cfg.DataDir, InMemory: cfg.DataDir == ""})
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	gameManager := service.NewGameManager(service.ManagerConfig{
		Store:         st,
		Clock:         cfg.Clock,
		MatchInterval: cfg.MatchInterval,
	})
	defer gameManager.Close()
	if n, err := gameManager.Restore(); err != nil {
		log.Printf("restore games: %v", err)
	} else if n > 0 {
		log.Printf("restored %d games", n)
	}
	gameService := service.NewGameService(gameManager)

	app := newApp(cfg, gameService)

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		<-sigc
		log.Println("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Printf("listen: %v", err)
	}
}

func newApp(cfg config.Config, gameService *service.GameService) *fiber.App {
	app := fiber.New()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	controller.RegisterRoutes(app, gameService)
	return app
}
