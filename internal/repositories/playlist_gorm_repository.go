package repositories

import (
	"errors"
	"fmt"

	"trackbox/internal/models"

	"gorm.io/gorm"
)

// GORMPlaylistRepository is a GORM implementation of PlaylistRepository.
type GORMPlaylistRepository struct {
	db *gorm.DB
}

// NewGORMPlaylistRepository creates a new instance of GORMPlaylistRepository.
func NewGORMPlaylistRepository(db *gorm.DB) *GORMPlaylistRepository {
	return &GORMPlaylistRepository{
		db: db,
	}
}

// Create creates a new playlist in the database.
func (r *GORMPlaylistRepository) Create(playlist *models.Playlist) error {
	if err := r.db.Create(playlist).Error; err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

// GetByID retrieves a playlist by its ID from the database.
func (r *GORMPlaylistRepository) GetByID(id uint) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.db.First(&playlist, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("playlist %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get playlist by ID %d: %w", id, err)
	}
	return &playlist, nil
}

// ListByUser retrieves all playlists owned by the given user, ordered by id.
func (r *GORMPlaylistRepository) ListByUser(userID uint) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := r.db.Order("id").Find(&playlists, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to list playlists for user %d: %w", userID, err)
	}
	return playlists, nil
}

// Delete removes a playlist and all its track associations in a single
// transaction, so either both disappear or neither does.
func (r *GORMPlaylistRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PlaylistTrack{}, "playlist_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Playlist{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("playlist %d: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete playlist %d: %w", id, err)
	}
	return nil
}

// TracksOf retrieves the tracks in a playlist via the association table.
func (r *GORMPlaylistRepository) TracksOf(playlistID uint) ([]models.Track, error) {
	var tracks []models.Track
	err := r.db.
		Joins("JOIN playlist_tracks ON playlist_tracks.track_id = tracks.id").
		Where("playlist_tracks.playlist_id = ?", playlistID).
		Order("tracks.id").
		Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks of playlist %d: %w", playlistID, err)
	}
	return tracks, nil
}

// AddTrack inserts a playlist-track association. The composite primary key
// rejects duplicate pairs at the storage level.
func (r *GORMPlaylistRepository) AddTrack(assoc *models.PlaylistTrack) error {
	if err := r.db.Create(assoc).Error; err != nil {
		return fmt.Errorf("failed to add track %d to playlist %d: %w", assoc.TrackID, assoc.PlaylistID, err)
	}
	return nil
}

// HasTrack reports whether the association already exists.
func (r *GORMPlaylistRepository) HasTrack(playlistID, trackID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.PlaylistTrack{}).
		Where("playlist_id = ? AND track_id = ?", playlistID, trackID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check association for playlist %d: %w", playlistID, err)
	}
	return count > 0, nil
}

// RemoveTrack deletes a playlist-track association.
func (r *GORMPlaylistRepository) RemoveTrack(playlistID, trackID uint) error {
	res := r.db.Delete(&models.PlaylistTrack{}, "playlist_id = ? AND track_id = ?", playlistID, trackID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove track %d from playlist %d: %w", trackID, playlistID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("association playlist %d / track %d: %w", playlistID, trackID, ErrNotFound)
	}
	return nil
}
