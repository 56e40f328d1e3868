package database

import "meriter/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
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
	}
}
