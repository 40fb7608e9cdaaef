package repositories

import "trackbox/internal/models"

// TrackRepository defines the interface for catalog track data access.
type TrackRepository interface {
	Create(track *models.Track) error
	GetByID(id uint) (*models.Track, error)
	// List returns a window of the catalog ordered by id.
	List(limit, offset int) ([]models.Track, error)
}
