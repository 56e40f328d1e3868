package server

import (
	"meriter/internal/models"
	"meriter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCommunity handles POST /api/communities
// @Summary Create community
// @Description Create a new community; the creator becomes its lead
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string,slug=string,description=string,type_tag=string} true "Community"
// @Success 201 {object} models.Community
// @Failure 400 {object} models.ErrorResponse
// @Router /communities [post]
func (s *Server) CreateCommunity(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	var req struct {
		Name        string         `json:"name"`
		Slug        string         `json:"slug"`
		Description string         `json:"description"`
		TypeTag     models.TypeTag `json:"type_tag"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	community, err := s.communityService.CreateCommunity(c.UserContext(), service.CreateCommunityInput{
		CreatorID:   userID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		TypeTag:     req.TypeTag,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(community)
}

// GetCommunities handles GET /api/communities
func (s *Server) GetCommunities(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	communities, err := s.communityService.ListCommunities(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"communities": communities})
}

// GetCommunity handles GET /api/communities/:id
func (s *Server) GetCommunity(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	community, err := s.communityService.GetCommunity(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(community)
}

// GetCommunityBySlug handles GET /api/communities/slug/:slug
func (s *Server) GetCommunityBySlug(c *fiber.Ctx) error {
	community, err := s.communityService.GetCommunityBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(community)
}

// GetEffectiveRules handles GET /api/communities/:id/effective-rules
// @Summary Effective rules
// @Description Resolve the community's rule set: stored overrides merged over type-tag defaults
// @Tags communities
// @Produce json
// @Param id path int true "Community ID"
// @Success 200 {object} rules.RuleSet
// @Failure 404 {object} models.ErrorResponse
// @Router /communities/{id}/effective-rules [get]
func (s *Server) GetEffectiveRules(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	rs, err := s.communityService.EffectiveRules(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(rs)
}

// UpdateCommunitySettings handles PATCH /api/communities/:id
// Only a lead or superadmin may change settings; nil sections stay untouched.
func (s *Server) UpdateCommunitySettings(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`

		VotingRules       *models.VotingRules       `json:"voting_rules"`
		PermissionRules   *[]models.PermissionRule  `json:"permission_rules"`
		MeritSettings     *models.MeritSettings     `json:"merit_settings"`
		TappalkaSettings  *models.TappalkaSettings  `json:"tappalka_settings"`
		InvestingSettings *models.InvestingSettings `json:"investing_settings"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	community, err := s.communityService.UpdateSettings(c.UserContext(), service.UpdateSettingsInput{
		ActorID:           userID,
		CommunityID:       id,
		Name:              req.Name,
		Description:       req.Description,
		VotingRules:       req.VotingRules,
		PermissionRules:   req.PermissionRules,
		MeritSettings:     req.MeritSettings,
		TappalkaSettings:  req.TappalkaSettings,
		InvestingSettings: req.InvestingSettings,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(community)
}

// ArchiveCommunity handles DELETE /api/communities/:id. Communities are never
// hard-deleted, only archived.
func (s *Server) ArchiveCommunity(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.communityService.Archive(c.UserContext(), userID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"archived": true})
}
