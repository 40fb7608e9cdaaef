package models

// Playlist is a user-owned, named collection of catalog tracks. Ownership
// is fixed at creation and never transfers.
type Playlist struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `json:"name" gorm:"type:varchar(255);not null" validate:"required,max=100"`
	UserID uint   `json:"user_id" gorm:"index;not null"`
}

// PlaylistTrack links one playlist to one track. The composite primary key
// makes the pair unique at the storage level, so concurrent duplicate
// inserts are rejected even if the application pre-check races.
type PlaylistTrack struct {
	PlaylistID uint `json:"playlist_id" gorm:"primaryKey"`
	TrackID    uint `json:"track_id" gorm:"primaryKey"`
}

// PlaylistWithTracks is the response shape for opening a playlist: the
// playlist fields with its track list embedded.
type PlaylistWithTracks struct {
	Playlist
	Tracks []Track `json:"tracks"`
}
