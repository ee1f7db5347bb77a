// Package server exposes the interview service over HTTP and WebSocket.
//
// One Fiber app serves three surfaces: the WebSocket interview endpoint that
// hands each connection to an orchestrator, the summary API, and the health
// probes. The server owns no session logic; it wires transports to the
// interview pipeline and the registry.
package server

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/vocahire/vocahire/pkg/interview"
	"github.com/vocahire/vocahire/pkg/llm"
	"github.com/vocahire/vocahire/pkg/session"
	"github.com/vocahire/vocahire/pkg/stt"
	"github.com/vocahire/vocahire/pkg/tts"
)

// Version is reported by the health and root endpoints.
const Version = "1.0.0"

// Config holds server settings.
type Config struct {
	// Port is the TCP port to listen on.
	Port int

	// Debug enables request logging.
	Debug bool

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger

	// InterviewOptions are applied to every orchestrator the server creates.
	InterviewOptions []interview.Option
}

// Server is the interview service.
type Server struct {
	app    *fiber.App
	cfg    Config
	logger *slog.Logger

	registry    *session.Registry
	summarizer  *session.Summarizer
	transcriber stt.Provider
	generator   llm.Generator
	speaker     tts.Provider
}

// New creates the server and registers all routes.
func New(
	cfg Config,
	registry *session.Registry,
	summarizer *session.Summarizer,
	transcriber stt.Provider,
	generator llm.Generator,
	speaker tts.Provider,
) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	s := &Server{
		cfg:         cfg,
		logger:      cfg.Logger.With("component", "server"),
		registry:    registry,
		summarizer:  summarizer,
		transcriber: transcriber,
		generator:   generator,
		speaker:     speaker,
	}

	app := fiber.New(fiber.Config{
		AppName:               "vocahire",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))
	if cfg.Debug {
		app.Use(logger.New())
	}

	app.Get("/", s.handleRoot)
	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Post("/interview/summary", s.handleGenerateSummary)
	api.Get("/interview/:id/summary", s.handleGetSummary)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/interview", websocket.New(s.handleInterview))
	app.Get("/ws/interview/:id", websocket.New(s.handleInterview))

	s.app = app
	return s
}

// App exposes the Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on the configured port.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
