package server

import (
	"bytes"
	"encoding/json"
	"testing"

	"meriter/internal/config"
	"meriter/internal/featureflags"
	"meriter/internal/models"
	"meriter/internal/repository"
	"meriter/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Wallet{},
		&models.QuotaUsage{},
		&models.Publication{},
		&models.Comment{},
		&models.Vote{},
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
		&models.Investment{},
		&models.TappalkaProgress{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// newHandlerTestServer wires a full Server on in-memory sqlite without the
// metrics or HTTP middleware stacks, which are exercised separately.
func newHandlerTestServer(t *testing.T) *Server {
	t.Helper()

	db := setupHandlerTestDB(t)
	cfg := &config.Config{
		JWTSecret:    "test_secret_test_secret_test_secret",
		FeatureFlags: "tappalka=on",
	}

	s := &Server{
		config:          cfg,
		db:              db,
		featureFlags:    featureflags.NewManager(cfg.FeatureFlags),
		userRepo:        repository.NewUserRepository(db),
		communityRepo:   repository.NewCommunityRepository(db),
		memberRepo:      repository.NewMemberRepository(db),
		publicationRepo: repository.NewPublicationRepository(db),
		voteRepo:        repository.NewVoteRepository(db),
		quotaRepo:       repository.NewQuotaRepository(db),
		walletRepo:      repository.NewWalletRepository(db),
		pollRepo:        repository.NewPollRepository(db),
		investmentRepo:  repository.NewInvestmentRepository(db),
		tappalkaRepo:    repository.NewTappalkaRepository(db),
	}

	s.userService = service.NewUserService(s.userRepo)
	s.quotaService = service.NewQuotaService(s.quotaRepo)
	s.communityService = service.NewCommunityService(s.communityRepo, s.memberRepo, s.userService.IsSuperadmin)
	s.publicationService = service.NewPublicationService(s.publicationRepo, s.communityRepo, s.memberRepo, s.quotaService, s.userService.IsSuperadmin)
	s.voteService = service.NewVoteService(db, s.publicationRepo, s.communityRepo, s.memberRepo, s.voteRepo, s.userService.IsSuperadmin)
	s.pollService = service.NewPollService(s.pollRepo, s.communityRepo, s.memberRepo, s.quotaService)
	s.investmentService = service.NewInvestmentService(db, s.investmentRepo, s.publicationRepo, s.communityRepo, s.memberRepo)
	s.tappalkaService = service.NewTappalkaService(db, s.publicationRepo, s.tappalkaRepo, s.communityRepo, s.memberRepo, s.featureFlags)

	return s
}

// asUser stamps every request with the given authenticated user, standing in
// for the JWT middleware.
func asUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(payload)
}

func createTestUser(t *testing.T, db *gorm.DB, username string, superadmin bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		Password:     "not-a-real-hash",
		IsSuperadmin: superadmin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}
