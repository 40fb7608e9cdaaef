package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"trackbox/internal/handlers"
	"trackbox/internal/middleware"
	"trackbox/internal/models"
	"trackbox/internal/repositories"
	"trackbox/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const adminEmail = "admin@example.com"

// setupApp builds a Fiber app wired exactly like main, on an in-memory
// SQLite database named after the test so parallel suites stay isolated.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Track{}, &models.Playlist{}, &models.PlaylistTrack{}); err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	trackRepo := repositories.NewGORMTrackRepository(db)
	playlistRepo := repositories.NewGORMPlaylistRepository(db)

	authService := services.NewAuthService(userRepo, "test_jwt_secret", []string{adminEmail})
	trackService := services.NewTrackService(trackRepo, authService, nil)
	playlistService := services.NewPlaylistService(playlistRepo, trackRepo, nil)

	authHandler := handlers.NewAuthHandler(authService)
	trackHandler := handlers.NewTrackHandler(trackService)
	playlistHandler := handlers.NewPlaylistHandler(playlistService)

	app := fiber.New()

	authHandler.RegisterRoutes(app)
	trackHandler.RegisterPublicRoutes(app)
	protected := app.Group("", middleware.AuthRequired(authService))
	trackHandler.RegisterProtectedRoutes(protected)
	playlistHandler.RegisterRoutes(protected)

	return app, db
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

// doRequest performs a JSON request against the test app.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	resp.Body.Close()
}

// registerAndLogin creates a user through the public endpoints and returns
// a bearer token for it.
func registerAndLogin(t *testing.T, app *fiber.App, email, username, password string) string {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	assert.Equal(t, "bearer", loginResp["token_type"])
	assert.NotEmpty(t, loginResp["access_token"])
	return loginResp["access_token"]
}

func TestFullScenario(t *testing.T) {
	app, db := setupApp(t)

	token := registerAndLogin(t, app, "a@x.com", "a", "p")

	// Create a playlist owned by the caller.
	resp := doRequest(t, app, http.MethodPost, "/playlists", token, map[string]string{"name": "Mix"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var playlist models.Playlist
	decodeBody(t, resp, &playlist)
	assert.Equal(t, uint(1), playlist.ID)
	assert.Equal(t, uint(1), playlist.UserID)

	// Adding a nonexistent track fails with 404.
	resp = doRequest(t, app, http.MethodPost, "/playlists/1/tracks/999", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// A regular user cannot add to the catalog.
	trackBody := map[string]interface{}{
		"title":   "T",
		"artists": []string{"X"},
		"tags":    []string{"pop"},
		"url":     "u",
	}
	resp = doRequest(t, app, http.MethodPost, "/tracks", token, trackBody)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// A listed administrator can.
	adminToken := registerAndLogin(t, app, adminEmail, "admin", "adminpass")
	resp = doRequest(t, app, http.MethodPost, "/tracks", adminToken, trackBody)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var track models.Track
	decodeBody(t, resp, &track)
	assert.Equal(t, uint(1), track.ID)
	assert.Equal(t, []string{"X"}, track.Artists)

	// Add the track to the playlist; a second attempt is rejected.
	resp = doRequest(t, app, http.MethodPost, "/playlists/1/tracks/1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/playlists/1/tracks/1", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	var assocCount int64
	assert.NoError(t, db.Model(&models.PlaylistTrack{}).Count(&assocCount).Error)
	assert.Equal(t, int64(1), assocCount)

	// The owner can open the playlist with its tracks embedded.
	resp = doRequest(t, app, http.MethodGet, "/playlists/1/tracks", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var withTracks models.PlaylistWithTracks
	decodeBody(t, resp, &withTracks)
	assert.Equal(t, "Mix", withTracks.Name)
	assert.Len(t, withTracks.Tracks, 1)
	assert.Equal(t, "T", withTracks.Tracks[0].Title)

	// Removing the track works once; the second attempt finds nothing.
	resp = doRequest(t, app, http.MethodDelete, "/playlists/1/tracks/1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodDelete, "/playlists/1/tracks/1", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Re-add the track, then delete the whole playlist.
	resp = doRequest(t, app, http.MethodPost, "/playlists/1/tracks/1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodDelete, "/playlists/1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/playlists/1/tracks", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// The cascade left no orphaned association rows, and the owner's
	// playlist listing no longer includes it.
	assert.NoError(t, db.Model(&models.PlaylistTrack{}).Count(&assocCount).Error)
	assert.Equal(t, int64(0), assocCount)

	resp = doRequest(t, app, http.MethodGet, "/playlists", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var playlists []models.Playlist
	decodeBody(t, resp, &playlists)
	assert.Empty(t, playlists)
}

func TestDuplicateRegistration(t *testing.T) {
	app, db := setupApp(t)

	resp := doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "taken@example.com", "username": "taken", "password": "password",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Same email, different username.
	resp = doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "taken@example.com", "username": "other", "password": "password",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Same username, different email.
	resp = doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "other@example.com", "username": "taken", "password": "password",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	var userCount int64
	assert.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.Equal(t, int64(1), userCount)
}

func TestLoginFailureIsUniform(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "u@example.com", "username": "u", "password": "correct",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Known user, wrong password.
	resp = doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "u", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	wrongPasswordBody, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	resp.Body.Close()

	// Unknown user, someone's correct password.
	resp = doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "ghost", "password": "correct",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	unknownUserBody, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	resp.Body.Close()

	// The two causes must be indistinguishable.
	assert.Equal(t, string(wrongPasswordBody), string(unknownUserBody))

	// Login by email also works.
	resp = doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "u@example.com", "password": "correct",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginRequiresIdentifier(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"password": "whatever",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "u",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestOwnershipStatusCodes(t *testing.T) {
	app, _ := setupApp(t)

	aliceToken := registerAndLogin(t, app, "alice@example.com", "alice", "password")
	bobToken := registerAndLogin(t, app, "bob@example.com", "bob", "password")

	resp := doRequest(t, app, http.MethodPost, "/playlists", aliceToken, map[string]string{"name": "Private"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// An existing playlist that is not Bob's answers 403; a nonexistent id
	// answers 404, so Bob cannot probe what exists under someone else.
	resp = doRequest(t, app, http.MethodGet, "/playlists/1/tracks", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/playlists/999/tracks", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Mutations are gated the same way.
	resp = doRequest(t, app, http.MethodDelete, "/playlists/1", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, http.MethodGet, "/playlists", aliceToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var playlists []models.Playlist
	decodeBody(t, resp, &playlists)
	assert.Len(t, playlists, 1)

	// Playlist listings are scoped to the caller.
	resp = doRequest(t, app, http.MethodGet, "/playlists", bobToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &playlists)
	assert.Empty(t, playlists)
}

func TestTrackListWindow(t *testing.T) {
	app, db := setupApp(t)

	for i := 0; i < 105; i++ {
		track := models.Track{
			Title:   fmt.Sprintf("Track %03d", i),
			Artists: []string{"X"},
			Tags:    []string{"pop"},
			URL:     fmt.Sprintf("https://example.com/%d", i),
		}
		assert.NoError(t, db.Create(&track).Error)
	}

	// The catalog listing is public.
	resp := doRequest(t, app, http.MethodGet, "/tracks", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var tracks []models.Track
	decodeBody(t, resp, &tracks)
	assert.Len(t, tracks, 10)

	// An oversized limit never yields more than 100 rows.
	resp = doRequest(t, app, http.MethodGet, "/tracks?limit=200", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &tracks)
	assert.Len(t, tracks, 100)

	// Offsets window the remainder.
	resp = doRequest(t, app, http.MethodGet, "/tracks?limit=10&offset=100", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &tracks)
	assert.Len(t, tracks, 5)
}

func TestAuthRequired(t *testing.T) {
	app, db := setupApp(t)

	// No credential at all.
	resp := doRequest(t, app, http.MethodGet, "/playlists", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// A token that does not verify.
	resp = doRequest(t, app, http.MethodGet, "/playlists", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// A valid token whose user has since been deleted is rejected with the
	// same status as an invalid one.
	token := registerAndLogin(t, app, "gone@example.com", "gone", "password")
	assert.NoError(t, db.Delete(&models.User{}, "username = ?", "gone").Error)

	resp = doRequest(t, app, http.MethodGet, "/playlists", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
