package models

// User represents a registered account. The password field holds a bcrypt
// hash and is never serialized to JSON.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Username string `json:"username" gorm:"uniqueIndex;type:varchar(255)" validate:"required,max=100"`
	Password string `json:"-" gorm:"type:varchar(255)" validate:"required"`
}
