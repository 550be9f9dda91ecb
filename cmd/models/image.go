package models

import "time"

type Image struct {
	ImageID     string    `gorm:"column:image_id;primaryKey;size:36" json:"image_id"`
	UserID      string    `gorm:"column:user_id;size:36;not null;index" json:"user_id"`
	Title       string    `gorm:"column:title;size:255;not null" json:"title"`
	Description *string   `gorm:"column:description;type:text" json:"description"`
	ImageURL    string    `gorm:"column:image_url;size:500;not null" json:"image_url"`
	Categories  *string   `gorm:"column:categories;size:500" json:"categories"`
	UploadedAt  time.Time `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Image) TableName() string {
	return "images"
}

// ImageWithOwner is the listing row: an image joined with its owner's
// username, matching what the gallery pages render.
type ImageWithOwner struct {
	ImageID     string    `json:"image_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	ImageURL    string    `json:"image_url"`
	Categories  *string   `json:"categories"`
	UploadedAt  time.Time `json:"uploaded_at"`
	CreatedAt   time.Time `json:"created_at"`
	Username    string    `json:"username"`
}

type ImageTag struct {
	ImageID string `gorm:"column:image_id;primaryKey;size:36" json:"image_id"`
	Tag     string `gorm:"column:tag;primaryKey;size:255" json:"tag"`
}

func (ImageTag) TableName() string {
	return "image_tags"
}
