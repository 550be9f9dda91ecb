package models

import "time"

type User struct {
	UserID         string    `gorm:"column:user_id;primaryKey;size:36" json:"user_id"`
	Email          string    `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	Username       string    `gorm:"column:username;size:255;not null" json:"username"`
	PasswordHash   string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	ProfilePicture *string   `gorm:"column:profile_picture;size:500" json:"profile_picture"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// PublicProfile is the user shape returned by the API: everything except
// the stored password hash.
type PublicProfile struct {
	UserID         string    `json:"user_id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	ProfilePicture *string   `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		UserID:         u.UserID,
		Email:          u.Email,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
	}
}
