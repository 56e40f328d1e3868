// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"meriter/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedOptions tune factory behavior.
type SeedOptions struct {
	// DryRun logs what would be created without writing to the database.
	DryRun bool
	// SkipBcrypt stores plaintext passwords for faster bulk seeding.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over the last N days.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// backdate spreads a timestamp over the configured window so seeded content
// does not all land on "now".
func (f *Factory) backdate() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:    strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		DisplayName: gofakeit.Name(),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "Password123!Seed"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Password123!Seed"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCommunity constructs and persists a community with the given type tag.
// Rule override columns are left nil so the tag defaults apply.
func (f *Factory) CreateCommunity(tag models.TypeTag, overrides ...func(*models.Community)) (*models.Community, error) {
	name := gofakeit.Company()
	community := &models.Community{
		Name:        name,
		Slug:        slugify(name) + fmt.Sprintf("-%d", gofakeit.Number(10, 99)),
		Description: gofakeit.Sentence(12),
		TypeTag:     tag,
		NeedsSetup:  false,
	}

	for _, override := range overrides {
		override(community)
	}

	if f.opts.DryRun {
		f.nextID++
		community.ID = f.nextID
		log.Printf("[dry-run] CreateCommunity: %s (%s)", community.Slug, community.TypeTag)
		return community, nil
	}

	if err := f.db.Create(community).Error; err != nil {
		return nil, err
	}
	return community, nil
}

// CreateMembership persists a membership row joining user to community.
func (f *Factory) CreateMembership(user *models.User, community *models.Community, role models.Role) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateMembership: user=%d community=%d role=%s", user.ID, community.ID, role)
		return nil
	}
	member := &models.CommunityMember{
		CommunityID: community.ID,
		UserID:      user.ID,
		Role:        role,
	}
	return f.db.Create(member).Error
}

// CreatePublication constructs and persists a publication authored by the
// given user, with created_at spread over the configured window.
func (f *Factory) CreatePublication(author *models.User, community *models.Community, overrides ...func(*models.Publication)) (*models.Publication, error) {
	publication := &models.Publication{
		CommunityID: community.ID,
		AuthorID:    author.ID,
		Title:       gofakeit.Sentence(5),
		Content:     gofakeit.Paragraph(1, 3, 5, "\n"),
	}
	publication.CreatedAt = f.backdate()

	for _, override := range overrides {
		override(publication)
	}

	if f.opts.DryRun {
		f.nextID++
		publication.ID = f.nextID
		log.Printf("[dry-run] CreatePublication: author=%d community=%d title=%q",
			publication.AuthorID, publication.CommunityID, publication.Title)
		return publication, nil
	}

	if err := f.db.Create(publication).Error; err != nil {
		return nil, err
	}
	return publication, nil
}

// CreateComment constructs and persists a comment on the provided publication
// authored by the provided user.
func (f *Factory) CreateComment(author *models.User, publication *models.Publication, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		PublicationID: publication.ID,
		AuthorID:      author.ID,
		Content:       gofakeit.Sentence(8),
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateVote persists a settled quota-funded vote and bumps the publication
// score to match, keeping seeded data consistent with real vote settlement.
func (f *Factory) CreateVote(voter *models.User, publication *models.Publication, direction models.VoteDirection, amount int64) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateVote: voter=%d publication=%d %s %d", voter.ID, publication.ID, direction, amount)
		return nil
	}

	vote := &models.Vote{
		VoterID:       voter.ID,
		PublicationID: publication.ID,
		CommunityID:   publication.CommunityID,
		Direction:     direction,
		Amount:        amount,
		QuotaAmount:   amount,
	}

	delta := amount
	if direction == models.VoteDown {
		delta = -amount
	}

	return f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		return tx.Model(&models.Publication{}).Where("id = ?", publication.ID).
			Update("score", gorm.Expr("score + ?", delta)).Error
	})
}

// GrantWalletBalance sets up a wallet row with the given balance, creating it
// if missing.
func (f *Factory) GrantWalletBalance(user *models.User, community *models.Community, balance int64) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] GrantWalletBalance: user=%d community=%d balance=%d", user.ID, community.ID, balance)
		return nil
	}
	wallet := &models.Wallet{
		UserID:      user.ID,
		CommunityID: community.ID,
		Balance:     balance,
	}
	return f.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "community_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
	}).Create(wallet).Error
}

func slugify(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			sb.WriteRune('-')
		}
	}
	out := strings.Trim(sb.String(), "-")
	if len(out) > 16 {
		out = out[:16]
	}
	if out == "" {
		out = "community"
	}
	return strings.Trim(out, "-")
}
