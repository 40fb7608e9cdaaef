package repositories

import (
	"errors"
	"fmt"

	"trackbox/internal/models"

	"gorm.io/gorm"
)

// GORMTrackRepository is a GORM implementation of TrackRepository.
type GORMTrackRepository struct {
	db *gorm.DB
}

// NewGORMTrackRepository creates a new instance of GORMTrackRepository.
func NewGORMTrackRepository(db *gorm.DB) *GORMTrackRepository {
	return &GORMTrackRepository{
		db: db,
	}
}

// Create creates a new track in the database.
func (r *GORMTrackRepository) Create(track *models.Track) error {
	if err := r.db.Create(track).Error; err != nil {
		return fmt.Errorf("failed to create track: %w", err)
	}
	return nil
}

// GetByID retrieves a single track by its ID from the database.
func (r *GORMTrackRepository) GetByID(id uint) (*models.Track, error) {
	var track models.Track
	if err := r.db.First(&track, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("track %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get track by ID %d: %w", id, err)
	}
	return &track, nil
}

// List retrieves a window of tracks ordered by id.
func (r *GORMTrackRepository) List(limit, offset int) ([]models.Track, error) {
	var tracks []models.Track
	if err := r.db.Order("id").Limit(limit).Offset(offset).Find(&tracks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, nil
}
