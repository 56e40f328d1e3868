package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"meriter/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	NumPublications int
	ShouldClean     bool
}

// Seeder populates the database with realistic demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, SeedOptions{MaxDays: 60})}
}

// ClearAll removes all seeded data. Postgres gets a fast TRUNCATE; other
// dialects (in-memory sqlite in tests) fall back to per-table deletes.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")

	if s.db.Dialector.Name() == "postgres" {
		sql := `TRUNCATE TABLE tappalka_progresses, investments, poll_votes, poll_options, polls,
			votes, comments, publications, quota_usages, wallets, community_members, communities, users
			RESTART IDENTITY CASCADE;`
		return s.db.Exec(sql).Error
	}

	for _, model := range []any{
		&models.TappalkaProgress{}, &models.Investment{}, &models.PollVote{},
		&models.PollOption{}, &models.Poll{}, &models.Vote{}, &models.Comment{},
		&models.Publication{}, &models.QuotaUsage{}, &models.Wallet{},
		&models.CommunityMember{}, &models.Community{}, &models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// Seed populates the database with users, memberships, publications, votes
// and comments across the built-in communities.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d publications...",
		opts.NumUsers, opts.NumPublications)

	s := NewSeeder(db)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	if err := Communities(db); err != nil {
		return fmt.Errorf("failed to seed built-in communities: %w", err)
	}

	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	communities, err := s.SeedMemberships(users)
	if err != nil {
		return fmt.Errorf("failed to create memberships: %w", err)
	}
	log.Printf("✓ memberships spread across %d communities", len(communities))

	publications, err := s.SeedPublications(users, communities, opts.NumPublications)
	if err != nil {
		return fmt.Errorf("failed to create publications: %w", err)
	}
	log.Printf("✓ %d publications created", len(publications))

	if err := s.SeedEngagement(users, publications); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// SeedUsers creates count users with the shared seed password.
func (s *Seeder) SeedUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := s.factory.CreateUser(func(u *models.User) {
			// suffix guarantees uniqueness on repeated gofakeit picks
			u.Username = fmt.Sprintf("%s%d", u.Username, i)
		})
		if err != nil {
			log.Printf("Failed to create user %d: %v", i, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

// SeedMemberships joins every user to two or three built-in communities and
// makes the first user a lead of each, so every community has someone who can
// manage its settings.
func (s *Seeder) SeedMemberships(users []*models.User) ([]*models.Community, error) {
	var communities []*models.Community
	if err := s.db.Find(&communities).Error; err != nil {
		return nil, err
	}
	if len(communities) == 0 || len(users) == 0 {
		return communities, nil
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, community := range communities {
		if err := s.factory.CreateMembership(users[0], community, models.RoleLead); err != nil {
			return nil, err
		}
	}

	for _, user := range users[1:] {
		joins := 2 + r.Intn(2)
		seen := map[uint]bool{}
		for j := 0; j < joins; j++ {
			community := communities[r.Intn(len(communities))]
			if seen[community.ID] {
				continue
			}
			seen[community.ID] = true
			if err := s.factory.CreateMembership(user, community, models.RoleParticipant); err != nil {
				return nil, err
			}
		}
	}

	return communities, nil
}

// SeedPublications creates count publications from random members.
func (s *Seeder) SeedPublications(users []*models.User, communities []*models.Community, count int) ([]*models.Publication, error) {
	if len(users) == 0 || len(communities) == 0 {
		return nil, nil
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	publications := make([]*models.Publication, 0, count)

	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		community := communities[r.Intn(len(communities))]

		publication, err := s.factory.CreatePublication(author, community, func(p *models.Publication) {
			p.IsProject = r.Float32() < 0.2
		})
		if err != nil {
			return nil, err
		}
		publications = append(publications, publication)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d publications...", i)
		}
	}
	return publications, nil
}

// SeedEngagement sprinkles quota-funded votes, comments and wallet balances
// over the seeded publications.
func (s *Seeder) SeedEngagement(users []*models.User, publications []*models.Publication) error {
	if len(users) == 0 || len(publications) == 0 {
		return nil
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, publication := range publications {
		votes := r.Intn(5)
		for v := 0; v < votes; v++ {
			voter := users[r.Intn(len(users))]
			if voter.ID == publication.AuthorID {
				continue
			}
			direction := models.VoteUp
			if r.Float32() < 0.25 {
				direction = models.VoteDown
			}
			amount := int64(1 + r.Intn(3))
			if err := s.factory.CreateVote(voter, publication, direction, amount); err != nil {
				return err
			}
		}

		if r.Float32() < 0.5 {
			commenter := users[r.Intn(len(users))]
			if _, err := s.factory.CreateComment(commenter, publication); err != nil {
				return err
			}
		}
	}

	// give a handful of users spendable wallet merit so invest/withdraw flows
	// are usable straight after seeding
	var communities []*models.Community
	if err := s.db.Find(&communities).Error; err != nil {
		return err
	}
	for i, user := range users {
		if i >= 10 || len(communities) == 0 {
			break
		}
		community := communities[r.Intn(len(communities))]
		if err := s.factory.GrantWalletBalance(user, community, int64(50+r.Intn(150))); err != nil {
			return err
		}
	}

	return nil
}
