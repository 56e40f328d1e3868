package seed

import (
	"fmt"

	"meriter/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInCommunity is a permanent system community.
type BuiltInCommunity struct {
	Name        string
	Slug        string
	Description string
	TypeTag     models.TypeTag
}

// BuiltInCommunities defines the permanent system communities, one per
// rule-set category so every default profile is exercised out of the box.
var BuiltInCommunities = []BuiltInCommunity{
	{Name: "The Commons", Slug: "commons", Description: "General discussion for Meriter.", TypeTag: models.TypeTagDefault},
	{Name: "Marathon of Good", Slug: "marathon", Description: "Everyone votes, everyone counts.", TypeTag: models.TypeTagMarathonOfGood},
	{Name: "Future Vision", Slug: "future-vision", Description: "Long bets and investable projects.", TypeTag: models.TypeTagFutureVision},
	{Name: "Meriter Support", Slug: "support", Description: "Help and troubleshooting.", TypeTag: models.TypeTagSupport},
	{Name: "Core Team", Slug: "core-team", Description: "Internal coordination space.", TypeTag: models.TypeTagTeam},
	{Name: "The Herald", Slug: "herald", Description: "Announcements and platform updates.", TypeTag: models.TypeTagDefault},
}

// Communities seeds the permanent built-in communities. Existing rows are
// updated in place by slug, so re-running the seeder never duplicates them
// and never touches rule overrides a lead may have configured.
func Communities(db *gorm.DB) error {
	for _, item := range BuiltInCommunities {
		community := models.Community{
			Name:        item.Name,
			Slug:        item.Slug,
			Description: item.Description,
			TypeTag:     item.TypeTag,
			NeedsSetup:  false,
		}

		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "type_tag", "updated_at"}),
		}).Create(&community).Error
		if err != nil {
			return fmt.Errorf("seed built-in community %s: %w", item.Slug, err)
		}
	}

	return nil
}
