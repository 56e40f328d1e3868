package server

import (
	"meriter/internal/models"
	"meriter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CastVote handles POST /api/votes
// @Summary Cast a vote
// @Description Vote on a publication; quota funds first, wallet covers the rest
// @Tags votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{publication_id=int,direction=string,amount=int,justification=string} true "Vote"
// @Success 201 {object} object{vote=models.Vote,decision=rules.Decision}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} rules.Decision
// @Router /votes [post]
func (s *Server) CastVote(c *fiber.Ctx) error {
	// The route uses optional auth: anonymous requests flow into the
	// evaluator and come back as a notLoggedIn denial, not a 401.
	userID, _ := currentUserID(c)

	var req struct {
		PublicationID uint                 `json:"publication_id"`
		Direction     models.VoteDirection `json:"direction"`
		Amount        int64                `json:"amount"`
		Justification string               `json:"justification"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PublicationID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("publication_id is required"))
	}

	vote, decision, err := s.voteService.CastVote(c.UserContext(), service.CastVoteInput{
		VoterID:       userID,
		PublicationID: req.PublicationID,
		Direction:     req.Direction,
		Amount:        req.Amount,
		Justification: req.Justification,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	// A denial is a decision, not an error: 403 with the reason code.
	if !decision.Allowed {
		return c.Status(fiber.StatusForbidden).JSON(decision)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"vote":     vote,
		"decision": decision,
	})
}

// GetVotes handles GET /api/publications/:id/votes
func (s *Server) GetVotes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)
	votes, err := s.voteService.ListVotes(c.UserContext(), id, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"votes": votes})
}
