package model

import "time"

// User is the identity an entry is owned by. The users table belongs to the
// external authentication service; only the columns the foreign key and the
// dev tooling need are mapped here.
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
}
