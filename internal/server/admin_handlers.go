package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags handles GET /api/admin/feature-flags, returning the flag
// state evaluated for the calling superadmin.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	return c.JSON(fiber.Map{
		"flags": s.featureFlags.Snapshot(userID),
	})
}

// PromoteSuperadmin handles POST /api/admin/users/:id/promote
func (s *Server) PromoteSuperadmin(c *fiber.Ctx) error {
	return s.setSuperadmin(c, true)
}

// DemoteSuperadmin handles POST /api/admin/users/:id/demote
func (s *Server) DemoteSuperadmin(c *fiber.Ctx) error {
	return s.setSuperadmin(c, false)
}

func (s *Server) setSuperadmin(c *fiber.Ctx, isSuperadmin bool) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetSuperadmin(c.UserContext(), targetID, isSuperadmin)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}
