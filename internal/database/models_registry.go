package database

import "entangl/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Hashtag{},
		&models.Like{},
		&models.Comment{},
	}
}
