package server

import (
	"meriter/internal/models"
	"meriter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetTappalkaPair handles GET /api/communities/:id/tappalka/pair
func (s *Server) GetTappalkaPair(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	pair, err := s.tappalkaService.Pair(c.UserContext(), userID, communityID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(pair)
}

// SubmitTappalkaChoice handles POST /api/communities/:id/tappalka/choices
func (s *Server) SubmitTappalkaChoice(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		WinnerID uint `json:"winner_id"`
		LoserID  uint `json:"loser_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.tappalkaService.SubmitChoice(c.UserContext(), service.SubmitChoiceInput{
		UserID:      userID,
		CommunityID: communityID,
		WinnerID:    req.WinnerID,
		LoserID:     req.LoserID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetTappalkaProgress handles GET /api/communities/:id/tappalka/progress
func (s *Server) GetTappalkaProgress(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	progress, err := s.tappalkaService.Progress(c.UserContext(), userID, communityID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(progress)
}
