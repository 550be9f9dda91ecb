package models

import "time"

// Showcase is a curated, titled grouping of images with freeform tags.
// Distinct from Collection, which is a plain named folder.
type Showcase struct {
	ShowcaseID  string    `gorm:"column:showcase_id;primaryKey;size:36" json:"showcase_id"`
	UserID      string    `gorm:"column:user_id;size:36;not null;index" json:"user_id"`
	Title       string    `gorm:"column:title;size:255;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Showcase) TableName() string {
	return "showcases"
}

type ShowcaseTag struct {
	ShowcaseID string `gorm:"column:showcase_id;primaryKey;size:36" json:"showcase_id"`
	Tag        string `gorm:"column:tag;primaryKey;size:255" json:"tag"`
}

func (ShowcaseTag) TableName() string {
	return "showcase_tags"
}

type ShowcaseImage struct {
	ShowcaseID string `gorm:"column:showcase_id;primaryKey;size:36" json:"showcase_id"`
	ImageID    string `gorm:"column:image_id;primaryKey;size:36" json:"image_id"`
}

func (ShowcaseImage) TableName() string {
	return "showcase_images"
}
