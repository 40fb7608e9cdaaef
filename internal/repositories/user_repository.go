package repositories

import "trackbox/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	// FindByEmailOrUsername looks up a user matching either identifier in a
	// single query. Registration uses it as the duplicate pre-check and
	// login uses it to accept either identifier.
	FindByEmailOrUsername(email, username string) (*models.User, error)
}
