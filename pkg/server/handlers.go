package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/vocahire/vocahire/pkg/session"
)

type summaryRequest struct {
	SessionID string `json:"session_id"`
}

const landingPage = `<html>
    <head>
        <title>VocaHire Backend</title>
    </head>
    <body>
        <h1>VocaHire Backend is running!</h1>
        <p>Connect to the WebSocket endpoint at <code>/ws/interview/{session_id}</code>.</p>
    </body>
</html>`

func (s *Server) handleRoot(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(landingPage)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
	})
}

// handleGenerateSummary computes (or returns the cached) summary for a
// finished session.
func (s *Server) handleGenerateSummary(c *fiber.Ctx) error {
	var req summaryRequest
	if err := c.BodyParser(&req); err != nil || req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id is required",
		})
	}

	summary, err := s.summarizer.Summarize(c.Context(), req.SessionID)
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session not found",
		})
	case errors.Is(err, session.ErrEmptyTranscript):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session has no transcript",
		})
	case err != nil:
		s.logger.Error("summary generation failed", "session_id", req.SessionID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "summary generation failed",
		})
	}
	return c.JSON(summary)
}

// handleGetSummary returns the cached summary, computing one on demand when
// none exists yet.
func (s *Server) handleGetSummary(c *fiber.Ctx) error {
	id := c.Params("id")
	summary, err := s.summarizer.Cached(id)
	if err == nil && summary == nil {
		summary, err = s.summarizer.Summarize(c.Context(), id)
	}
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session not found",
		})
	case errors.Is(err, session.ErrEmptyTranscript):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session has no transcript",
		})
	case err != nil:
		s.logger.Error("summary generation failed", "session_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "summary generation failed",
		})
	}
	return c.JSON(summary)
}
