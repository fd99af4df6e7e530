package model

import "time"

// Article data model. AuthorID is written once, when the article is created,
// and never taken from client input.
type Article struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:200;not null"`
	Body      string    `json:"body" gorm:"type:text"`
	AuthorID  uint      `json:"authorId" gorm:"index;not null"` // the author
	Author    *User     `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
