package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMyWallet handles GET /api/wallets/:communityId. A wallet row is created
// lazily, so a user who never earned or spent sees a zero balance.
func (s *Server) GetMyWallet(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	communityID, err := s.parseID(c, "communityId")
	if err != nil {
		return nil
	}

	wallet, err := s.walletRepo.GetOrCreate(c.UserContext(), userID, communityID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(wallet)
}

// GetMyWallets handles GET /api/wallets
func (s *Server) GetMyWallets(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	wallets, err := s.walletRepo.ListByUser(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"wallets": wallets})
}
