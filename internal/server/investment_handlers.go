package server

import (
	"meriter/internal/models"
	"meriter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Invest handles POST /api/publications/:id/investments
// @Summary Invest in a publication
// @Description Contribute wallet merit to the publication's investment pool
// @Tags investments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Publication ID"
// @Param request body object{amount=int} true "Investment"
// @Success 201 {object} service.InvestmentPosition
// @Failure 400 {object} models.ErrorResponse
// @Router /publications/{id}/investments [post]
func (s *Server) Invest(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	publicationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	position, err := s.investmentService.Invest(c.UserContext(), service.InvestInput{
		InvestorID:    userID,
		PublicationID: publicationID,
		Amount:        req.Amount,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(position)
}

// GetInvestmentShare handles GET /api/publications/:id/investments/share.
// The share is recomputed from the stored contributions on every call.
func (s *Server) GetInvestmentShare(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	publicationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	position, err := s.investmentService.Position(c.UserContext(), publicationID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(position)
}

// SettleInvestments handles POST /api/publications/:id/investments/settle.
// Settlement only proceeds once the pool has expired or hit its stop loss.
func (s *Server) SettleInvestments(c *fiber.Ctx) error {
	publicationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.investmentService.Settle(c.UserContext(), publicationID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"settled": true})
}
