package models

import "time"

type Comment struct {
	CommentID string    `gorm:"column:comment_id;primaryKey;size:36" json:"comment_id"`
	ImageID   string    `gorm:"column:image_id;size:36;not null;index" json:"image_id"`
	UserID    string    `gorm:"column:user_id;size:36;not null" json:"user_id"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// A user may like the same image more than once; there is deliberately
// no uniqueness constraint here.
type Like struct {
	LikeID  string `gorm:"column:like_id;primaryKey;size:36" json:"like_id"`
	ImageID string `gorm:"column:image_id;size:36;not null;index" json:"image_id"`
	UserID  string `gorm:"column:user_id;size:36;not null" json:"user_id"`
}

func (Like) TableName() string {
	return "likes"
}

type Follow struct {
	FollowerID string `gorm:"column:follower_id;primaryKey;size:36" json:"follower_id"`
	FollowedID string `gorm:"column:followed_id;primaryKey;size:36" json:"followed_id"`
}

func (Follow) TableName() string {
	return "follows"
}

// Favorite is intentionally kept separate from Like even though the two
// tables have the same shape; merging them would change behavior the
// clients rely on.
type Favorite struct {
	FavoriteID string `gorm:"column:favorite_id;primaryKey;size:36" json:"favorite_id"`
	UserID     string `gorm:"column:user_id;size:36;not null;index" json:"user_id"`
	ImageID    string `gorm:"column:image_id;size:36;not null" json:"image_id"`
}

func (Favorite) TableName() string {
	return "favorites"
}
