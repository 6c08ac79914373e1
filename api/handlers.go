package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zubale/querybot/pkg/pipeline"
)

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	// UserID identifies the conversation the question belongs to.
	UserID string `json:"user_id"`
	// Query is the user's question.
	Query string `json:"query"`
}

// QueryResponse is the successful response of POST /query.
type QueryResponse struct {
	Answer string `json:"answer"`
}

// ErrorResponse is the body returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleQuery runs one conversational turn and returns the answer.
func (s *Server) handleQuery(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}

	if req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "user_id is required",
		})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query is required",
		})
	}

	requestID := uuid.NewString()

	turn, err := s.pipeline.Run(c.Context(), req.UserID, req.Query)
	if err != nil {
		if errors.Is(err, pipeline.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: err.Error(),
			})
		}

		s.logger.Error("query turn failed",
			zap.String("request_id", requestID),
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "An internal error occurred while processing the query.",
		})
	}

	s.logger.Debug("query turn completed",
		zap.String("request_id", requestID),
		zap.String("user_id", req.UserID),
		zap.Int("documents", len(turn.Documents)),
		zap.Bool("clear_context", turn.HasClearContext),
	)

	return c.JSON(QueryResponse{Answer: turn.Generation})
}
