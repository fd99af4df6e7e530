package model

import "time"

// User is a password account. PasswordHash is a bcrypt hash and is never
// sent to clients.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash []byte `gorm:"not null"`
	CreatedAt    time.Time
}
