package handlers

import (
	"errors"
	"fmt"
	"log"

	"trackbox/internal/models"
	"trackbox/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TrackHandler handles HTTP requests for the track catalog.
type TrackHandler struct {
	service  *services.TrackService
	validate *validator.Validate
}

// NewTrackHandler creates a new TrackHandler.
func NewTrackHandler(service *services.TrackService) *TrackHandler {
	return &TrackHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the catalog listing. It must be called
// before the protected group is created so the route sits ahead of the auth
// middleware in the stack.
func (h *TrackHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/tracks", h.HandleListTracks)
}

// RegisterProtectedRoutes registers the admin-only catalog mutation on the
// authenticated router.
func (h *TrackHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/tracks", h.HandleCreateTrack)
}

// HandleListTracks returns a window of the catalog.
func (h *TrackHandler) HandleListTracks(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	tracks, err := h.service.List(limit, offset)
	if err != nil {
		log.Printf("Error listing tracks: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve tracks",
		})
	}
	return c.JSON(tracks)
}

// HandleCreateTrack adds a track to the catalog. Admin only.
func (h *TrackHandler) HandleCreateTrack(c *fiber.Ctx) error {
	user := currentUser(c)

	var track models.Track
	if err := c.BodyParser(&track); err != nil {
		log.Printf("Error parsing track request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	track.ID = 0 // catalog assigns ids

	if err := h.validate.Struct(track); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	if err := h.service.Create(&track, user); err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Only administrators can add tracks",
			})
		}
		log.Printf("Error creating track: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create track",
		})
	}

	return c.JSON(track)
}
