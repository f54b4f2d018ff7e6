package model

import "time"

// MusicEntry is one music metadata record in the library.
// Filename references an audio asset; its existence is never checked.
type MusicEntry struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Filename  string    `json:"filename" gorm:"size:255;not null"`
	OwnerID   int64     `json:"ownerId" gorm:"column:user_id;not null;index"`
	Owner     *User     `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName keeps the table name stable across renames of the Go type.
func (MusicEntry) TableName() string {
	return "music_files"
}
