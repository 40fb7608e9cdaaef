package repositories

import "trackbox/internal/models"

// PlaylistRepository defines the interface for playlist and
// playlist-track association data access.
type PlaylistRepository interface {
	Create(playlist *models.Playlist) error
	GetByID(id uint) (*models.Playlist, error)
	ListByUser(userID uint) ([]models.Playlist, error)
	// Delete removes the playlist and all its associations atomically.
	Delete(id uint) error

	// TracksOf returns the tracks associated with a playlist, ordered by id.
	TracksOf(playlistID uint) ([]models.Track, error)
	AddTrack(assoc *models.PlaylistTrack) error
	HasTrack(playlistID, trackID uint) (bool, error)
	// RemoveTrack deletes the association; ErrNotFound if it does not exist.
	RemoveTrack(playlistID, trackID uint) error
}
