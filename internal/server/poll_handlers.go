package server

import (
	"time"

	"meriter/internal/models"
	"meriter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePoll handles POST /api/polls
func (s *Server) CreatePoll(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	var req struct {
		CommunityID uint       `json:"community_id"`
		Question    string     `json:"question"`
		Options     []string   `json:"options"`
		ClosesAt    *time.Time `json:"closes_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	poll, err := s.pollService.CreatePoll(c.UserContext(), service.CreatePollInput{
		AuthorID:    userID,
		CommunityID: req.CommunityID,
		Question:    req.Question,
		Options:     req.Options,
		ClosesAt:    req.ClosesAt,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(poll)
}

// GetPoll handles GET /api/polls/:id
func (s *Server) GetPoll(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	poll, err := s.pollService.GetPoll(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(poll)
}

// GetCommunityPolls handles GET /api/communities/:id/polls
func (s *Server) GetCommunityPolls(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)
	polls, err := s.pollService.ListPolls(c.UserContext(), communityID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"polls": polls})
}

// CastPollVote handles POST /api/polls/:id/votes. One cast per user per poll;
// each accepted cast consumes one unit of poll_cast quota.
func (s *Server) CastPollVote(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	pollID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		OptionID uint `json:"option_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	poll, err := s.pollService.CastVote(c.UserContext(), userID, pollID, req.OptionID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(poll)
}
