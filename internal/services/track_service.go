package services

import (
	"log"

	"trackbox/internal/models"
	"trackbox/internal/repositories"
	"trackbox/pkg/rabbitmq"
)

const (
	defaultTrackLimit = 10
	maxTrackLimit     = 100
)

// TrackService handles the shared track catalog.
type TrackService struct {
	trackRepo repositories.TrackRepository
	auth      *AuthService
	mqClient  *rabbitmq.Client
}

// NewTrackService creates a new TrackService. mqClient may be nil, in which
// case no events are published.
func NewTrackService(trackRepo repositories.TrackRepository, auth *AuthService, mqClient *rabbitmq.Client) *TrackService {
	return &TrackService{
		trackRepo: trackRepo,
		auth:      auth,
		mqClient:  mqClient,
	}
}

// List returns a window of the catalog. The limit defaults to 10 and is
// clamped to 100; a negative offset is treated as 0.
func (s *TrackService) List(limit, offset int) ([]models.Track, error) {
	if limit <= 0 {
		limit = defaultTrackLimit
	}
	if limit > maxTrackLimit {
		limit = maxTrackLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.trackRepo.List(limit, offset)
}

// Create adds a track to the catalog. Only users on the administrator
// allow-list may do this; everyone else gets ErrForbidden before any
// storage access.
func (s *TrackService) Create(track *models.Track, user *models.User) error {
	if !s.auth.IsAdmin(user.Email) {
		return ErrForbidden
	}

	if err := s.trackRepo.Create(track); err != nil {
		return err
	}

	if s.mqClient != nil {
		if err := s.mqClient.PublishEvent("track.created", track); err != nil {
			log.Printf("Warning: failed to publish track created event for track %d: %v", track.ID, err)
		}
	}
	return nil
}
