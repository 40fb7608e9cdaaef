package models

// Track is an entry in the shared catalog. Tracks are created by
// administrators and immutable afterwards. Artists and Tags are stored as
// JSON-serialized text columns so the same model works on PostgreSQL and
// the SQLite test database.
type Track struct {
	ID      uint     `json:"id" gorm:"primaryKey"`
	Title   string   `json:"title" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	Artists []string `json:"artists" gorm:"serializer:json;type:text" validate:"required,min=1,dive,required"`
	Tags    []string `json:"tags" gorm:"serializer:json;type:text"`
	URL     string   `json:"url" gorm:"type:varchar(255);not null" validate:"required"`
}
