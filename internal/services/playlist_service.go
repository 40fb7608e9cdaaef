package services

import (
	"errors"
	"log"

	"trackbox/internal/models"
	"trackbox/internal/repositories"
	"trackbox/pkg/rabbitmq"
)

// PlaylistService handles user-owned playlists and their track
// associations. Every playlist-scoped operation goes through the ownership
// gate before reading or mutating playlist state.
type PlaylistService struct {
	playlistRepo repositories.PlaylistRepository
	trackRepo    repositories.TrackRepository
	mqClient     *rabbitmq.Client
}

// NewPlaylistService creates a new PlaylistService. mqClient may be nil, in
// which case no events are published.
func NewPlaylistService(playlistRepo repositories.PlaylistRepository, trackRepo repositories.TrackRepository, mqClient *rabbitmq.Client) *PlaylistService {
	return &PlaylistService{
		playlistRepo: playlistRepo,
		trackRepo:    trackRepo,
		mqClient:     mqClient,
	}
}

// validateOwner fetches the playlist and confirms the user owns it.
// Existence is checked before ownership: a caller probing a nonexistent id
// must get ErrPlaylistNotFound, never ErrNotOwner, so the response does not
// reveal whether the id exists under someone else. The fetched playlist is
// returned so callers do not fetch it again.
func (s *PlaylistService) validateOwner(playlistID uint, user *models.User) (*models.Playlist, error) {
	playlist, err := s.playlistRepo.GetByID(playlistID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	if playlist.UserID != user.ID {
		return nil, ErrNotOwner
	}
	return playlist, nil
}

// Create creates a playlist owned by the given user.
func (s *PlaylistService) Create(name string, user *models.User) (*models.Playlist, error) {
	playlist := &models.Playlist{
		Name:   name,
		UserID: user.ID,
	}
	if err := s.playlistRepo.Create(playlist); err != nil {
		return nil, err
	}

	if s.mqClient != nil {
		if err := s.mqClient.PublishEvent("playlist.created", playlist); err != nil {
			log.Printf("Warning: failed to publish playlist created event for playlist %d: %v", playlist.ID, err)
		}
	}
	return playlist, nil
}

// ListOwn returns the caller's playlists.
func (s *PlaylistService) ListOwn(user *models.User) ([]models.Playlist, error) {
	return s.playlistRepo.ListByUser(user.ID)
}

// Tracks returns the playlist with its track list embedded. Owner only.
func (s *PlaylistService) Tracks(playlistID uint, user *models.User) (*models.PlaylistWithTracks, error) {
	playlist, err := s.validateOwner(playlistID, user)
	if err != nil {
		return nil, err
	}

	tracks, err := s.playlistRepo.TracksOf(playlist.ID)
	if err != nil {
		return nil, err
	}
	return &models.PlaylistWithTracks{
		Playlist: *playlist,
		Tracks:   tracks,
	}, nil
}

// AddTrack associates a catalog track with a playlist. Owner only. The
// track must exist (checked before duplication) and the pair must be new.
func (s *PlaylistService) AddTrack(playlistID, trackID uint, user *models.User) error {
	playlist, err := s.validateOwner(playlistID, user)
	if err != nil {
		return err
	}

	track, err := s.trackRepo.GetByID(trackID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTrackNotFound
		}
		return err
	}

	exists, err := s.playlistRepo.HasTrack(playlist.ID, track.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateAssociation
	}

	return s.playlistRepo.AddTrack(&models.PlaylistTrack{
		PlaylistID: playlist.ID,
		TrackID:    track.ID,
	})
}

// RemoveTrack removes a track association from a playlist. Owner only.
func (s *PlaylistService) RemoveTrack(playlistID, trackID uint, user *models.User) error {
	playlist, err := s.validateOwner(playlistID, user)
	if err != nil {
		return err
	}

	if err := s.playlistRepo.RemoveTrack(playlist.ID, trackID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAssociationNotFound
		}
		return err
	}
	return nil
}

// Delete removes a playlist and all its associations. Owner only.
func (s *PlaylistService) Delete(playlistID uint, user *models.User) error {
	playlist, err := s.validateOwner(playlistID, user)
	if err != nil {
		return err
	}

	if err := s.playlistRepo.Delete(playlist.ID); err != nil {
		return err
	}

	if s.mqClient != nil {
		if err := s.mqClient.PublishEvent("playlist.deleted", playlist); err != nil {
			log.Printf("Warning: failed to publish playlist deleted event for playlist %d: %v", playlist.ID, err)
		}
	}
	return nil
}
