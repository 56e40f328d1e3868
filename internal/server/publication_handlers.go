package server

import (
	"meriter/internal/models"
	"meriter/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePublication handles POST /api/publications
// @Summary Create publication
// @Description Publish a post; costs one unit of daily quota for quota recipients
// @Tags publications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{community_id=int,title=string,content=string,beneficiary_id=int,is_project=bool} true "Publication"
// @Success 201 {object} models.Publication
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /publications [post]
func (s *Server) CreatePublication(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	var req struct {
		CommunityID   uint   `json:"community_id"`
		Title         string `json:"title"`
		Content       string `json:"content"`
		BeneficiaryID *uint  `json:"beneficiary_id"`
		IsProject     bool   `json:"is_project"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	publication, err := s.publicationService.CreatePublication(c.UserContext(), service.CreatePublicationInput{
		AuthorID:      userID,
		CommunityID:   req.CommunityID,
		Title:         req.Title,
		Content:       req.Content,
		BeneficiaryID: req.BeneficiaryID,
		IsProject:     req.IsProject,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(publication)
}

// GetCommunityPublications handles GET /api/communities/:id/publications
// Supported sorts: top, rising, new (default).
func (s *Server) GetCommunityPublications(c *fiber.Ctx) error {
	communityID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)
	publications, err := s.publicationService.ListPublications(
		c.UserContext(), communityID, p.Limit, p.Offset, c.Query("sort", "new"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"publications": publications})
}

// GetPublication handles GET /api/publications/:id
func (s *Server) GetPublication(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	publication, err := s.publicationService.GetPublication(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(publication)
}

// UpdatePublication handles PATCH /api/publications/:id
func (s *Server) UpdatePublication(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	publication, err := s.publicationService.UpdatePublication(c.UserContext(), service.UpdatePublicationInput{
		ActorID:       userID,
		PublicationID: id,
		Title:         req.Title,
		Content:       req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(publication)
}

// DeletePublication handles DELETE /api/publications/:id
func (s *Server) DeletePublication(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.publicationService.DeletePublication(c.UserContext(), userID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// CreateComment handles POST /api/publications/:id/comments. The first comment
// freezes the publication against author edits.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.publicationService.CreateComment(c.UserContext(), userID, id, req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/publications/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)
	comments, err := s.publicationService.ListComments(c.UserContext(), id, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}
