package server

import (
	"meriter/internal/models"
	"meriter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMembers handles GET /api/communities/:id/members
func (s *Server) GetMembers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)
	members, err := s.communityService.ListMembers(c.UserContext(), id, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"members": members})
}

// AddMember handles POST /api/communities/:id/members. Omitting user_id joins
// the caller as a participant; granting other users or roles needs a lead.
func (s *Server) AddMember(c *fiber.Ctx) error {
	actorID, _ := currentUserID(c)
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uint        `json:"user_id"`
		Role   models.Role `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.UserID == 0 {
		req.UserID = actorID
	}

	member, err := s.communityService.AddMember(c.UserContext(), service.AddMemberInput{
		ActorID:     actorID,
		CommunityID: communityID,
		UserID:      req.UserID,
		Role:        req.Role,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

// UpdateMemberRole handles PATCH /api/communities/:id/members/:userId
func (s *Server) UpdateMemberRole(c *fiber.Ctx) error {
	actorID, _ := currentUserID(c)
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		Role models.Role `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.communityService.UpdateMemberRole(c.UserContext(), service.UpdateMemberRoleInput{
		ActorID:     actorID,
		CommunityID: communityID,
		UserID:      userID,
		Role:        req.Role,
	}); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"updated": true})
}

// RemoveMember handles DELETE /api/communities/:id/members/:userId
func (s *Server) RemoveMember(c *fiber.Ctx) error {
	actorID, _ := currentUserID(c)
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.communityService.RemoveMember(c.UserContext(), actorID, communityID, userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"removed": true})
}
