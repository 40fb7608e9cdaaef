package handlers

import (
	"errors"
	"fmt"
	"log"

	"trackbox/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PlaylistHandler handles HTTP requests for playlists. All routes require
// an authenticated user; playlist-scoped routes are owner-only.
type PlaylistHandler struct {
	service  *services.PlaylistService
	validate *validator.Validate
}

// NewPlaylistHandler creates a new PlaylistHandler.
func NewPlaylistHandler(service *services.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the playlist routes on the protected router.
func (h *PlaylistHandler) RegisterRoutes(router fiber.Router) {
	playlistRoutes := router.Group("/playlists")
	playlistRoutes.Post("/", h.HandleCreatePlaylist)
	playlistRoutes.Get("/", h.HandleListPlaylists)
	playlistRoutes.Get("/:playlist_id/tracks", h.HandleGetPlaylistTracks)
	playlistRoutes.Post("/:playlist_id/tracks/:track_id", h.HandleAddTrack)
	playlistRoutes.Delete("/:playlist_id/tracks/:track_id", h.HandleRemoveTrack)
	playlistRoutes.Delete("/:playlist_id", h.HandleDeletePlaylist)
}

// CreatePlaylistRequest represents the request body for creating a playlist.
type CreatePlaylistRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// HandleCreatePlaylist creates a playlist owned by the caller.
func (h *PlaylistHandler) HandleCreatePlaylist(c *fiber.Ctx) error {
	user := currentUser(c)

	var req CreatePlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing playlist request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Playlist name is required and must be at most 100 characters",
		})
	}

	playlist, err := h.service.Create(req.Name, user)
	if err != nil {
		log.Printf("Error creating playlist for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create playlist",
		})
	}
	return c.JSON(playlist)
}

// HandleListPlaylists returns the caller's playlists.
func (h *PlaylistHandler) HandleListPlaylists(c *fiber.Ctx) error {
	user := currentUser(c)

	playlists, err := h.service.ListOwn(user)
	if err != nil {
		log.Printf("Error listing playlists for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve playlists",
		})
	}
	return c.JSON(playlists)
}

// HandleGetPlaylistTracks returns a playlist with its embedded track list.
func (h *PlaylistHandler) HandleGetPlaylistTracks(c *fiber.Ctx) error {
	user := currentUser(c)

	playlistID, err := c.ParamsInt("playlist_id")
	if err != nil || playlistID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid playlist id",
		})
	}

	playlist, err := h.service.Tracks(uint(playlistID), user)
	if err != nil {
		return h.playlistError(c, err, "Could not retrieve playlist tracks")
	}
	return c.JSON(playlist)
}

// HandleAddTrack adds a catalog track to the caller's playlist.
func (h *PlaylistHandler) HandleAddTrack(c *fiber.Ctx) error {
	user := currentUser(c)

	playlistID, trackID, err := h.pairParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid playlist or track id",
		})
	}

	if err := h.service.AddTrack(playlistID, trackID, user); err != nil {
		switch {
		case errors.Is(err, services.ErrTrackNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Track not found",
			})
		case errors.Is(err, services.ErrDuplicateAssociation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Track is already in the playlist",
			})
		}
		return h.playlistError(c, err, "Could not add track to playlist")
	}

	return c.JSON(fiber.Map{
		"message": "Track added",
	})
}

// HandleRemoveTrack removes a track association from the caller's playlist.
func (h *PlaylistHandler) HandleRemoveTrack(c *fiber.Ctx) error {
	user := currentUser(c)

	playlistID, trackID, err := h.pairParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid playlist or track id",
		})
	}

	if err := h.service.RemoveTrack(playlistID, trackID, user); err != nil {
		if errors.Is(err, services.ErrAssociationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Track is not in the playlist",
			})
		}
		return h.playlistError(c, err, "Could not remove track from playlist")
	}

	return c.JSON(fiber.Map{
		"message": "Track removed",
	})
}

// HandleDeletePlaylist deletes the caller's playlist and its associations.
func (h *PlaylistHandler) HandleDeletePlaylist(c *fiber.Ctx) error {
	user := currentUser(c)

	playlistID, err := c.ParamsInt("playlist_id")
	if err != nil || playlistID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid playlist id",
		})
	}

	if err := h.service.Delete(uint(playlistID), user); err != nil {
		return h.playlistError(c, err, "Could not delete playlist")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Playlist %d deleted", playlistID),
	})
}

// playlistError maps the ownership-gate failures shared by every
// playlist-scoped operation. Not-found answers 404 and not-owner 403; the
// gate itself guarantees 403 is only possible for playlists that exist.
func (h *PlaylistHandler) playlistError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrPlaylistNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Playlist not found",
		})
	case errors.Is(err, services.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You are not the owner of this playlist",
		})
	}
	log.Printf("Playlist operation failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": fallback,
	})
}

func (h *PlaylistHandler) pairParams(c *fiber.Ctx) (uint, uint, error) {
	playlistID, err := c.ParamsInt("playlist_id")
	if err != nil || playlistID < 1 {
		return 0, 0, fmt.Errorf("invalid playlist id")
	}
	trackID, err := c.ParamsInt("track_id")
	if err != nil || trackID < 1 {
		return 0, 0, fmt.Errorf("invalid track id")
	}
	return uint(playlistID), uint(trackID), nil
}
