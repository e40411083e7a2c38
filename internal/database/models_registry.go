package database

import "hustlehub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Opportunity{},
		&models.Application{},
		&models.Post{},
	}
}
